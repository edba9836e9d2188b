package config

import (
	"os"
	"strconv"
)

func envString(dst *string, name string) {
	if v := os.Getenv(name); v != "" {
		*dst = v
	}
}

func envInt(dst *int, name string) {
	if n, err := strconv.Atoi(os.Getenv(name)); err == nil {
		*dst = n
	}
}

func mergeString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
