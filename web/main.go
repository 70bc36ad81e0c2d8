package main

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/df07/go-blackhole-raytracer/pkg/loaders"
	"github.com/df07/go-blackhole-raytracer/web/server"
)

func main() {
	// Parse command line flags
	port := flag.Int("port", 8080, "Port to serve on")
	width := flag.Int("width", 800, "Initial viewport width")
	height := flag.Int("height", 600, "Initial viewport height")
	fps := flag.Int("fps", 30, "Maximum frames per second")
	background := flag.String("background", "", "Equirectangular background image (PNG, JPEG, BMP, TIFF or WebP); procedural star field if empty")
	maxBackgroundWidth := flag.Int("background-max-width", 4096, "Downscale wider backgrounds to this width")
	flag.Parse()

	config := server.DefaultConfig()
	config.Port = *port
	config.Width = *width
	config.Height = *height
	if *fps > 0 {
		config.FrameInterval = time.Second / time.Duration(*fps)
		config.TimeStep = 1.0 / float64(*fps)
	}

	if *background != "" {
		env, err := loaders.LoadEnvironment(*background, *maxBackgroundWidth)
		if err != nil {
			log.Printf("Error loading background: %v", err)
			os.Exit(1)
		}
		config.Background = env
	}

	webServer, err := server.NewServer(config)
	if err != nil {
		log.Printf("Error creating server: %v", err)
		os.Exit(1)
	}

	log.Printf("Black Hole Raytracer Web Server")
	log.Printf("Stream frames from http://localhost:%d/api/stream", *port)

	if err := webServer.Start(); err != nil {
		log.Printf("Error starting server: %v", err)
		os.Exit(1)
	}
}
