package config

import (
	"os"
	"strconv"
)

type Config struct {
	TCPAddr   string
	WSAddr    string
	HTTPAddr  string
	OutBuffer int
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func Load() *Config {
	addr := getEnv("RELAY_TCP_ADDR", ":5000")
	wsAddr := getEnv("RELAY_WS_ADDR", ":8080")
	httpAddr := getEnv("RELAY_HTTP_ADDR", ":9090")
	outBufStr := getEnv("RELAY_OUTBUF", "256")
	outBuf, err := strconv.Atoi(outBufStr)
	if err != nil || outBuf <= 0 {
		outBuf = 256
	}
	return &Config{
		TCPAddr:   addr,
		WSAddr:    wsAddr,
		HTTPAddr:  httpAddr,
		OutBuffer: outBuf,
	}
}
