package wrpcd

// Version is overwritten at build time with -ldflags "-X github.com/wrpcd/wrpcd.Version=..."
var Version = "v0.1.0-dev"
