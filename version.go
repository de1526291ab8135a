package main

// Version is overridden at release time via -ldflags "-X main.Version=...".
var Version = "0.1.0"
