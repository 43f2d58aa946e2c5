package calculator

// Version and BuildDate are stamped at link time:
//
//	go build -ldflags "-X github.com/MoefulYe/calculator.Version=v1.2.0 -X github.com/MoefulYe/calculator.BuildDate=2026-01-01"
var (
	Version   = "dev"
	BuildDate = "unknown"
)
