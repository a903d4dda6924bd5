package config

import (
	"os"
	"sync"
)

type DirectoryConfig struct {
	BaseURL  string
	APIToken string
}

var (
	directoryConfig *DirectoryConfig
	directoryOnce   sync.Once
)

func LoadDirectoryConfig() *DirectoryConfig {
	directoryOnce.Do(func() {
		directoryConfig = &DirectoryConfig{
			BaseURL:  os.Getenv("HR_DIRECTORY_URL"),
			APIToken: os.Getenv("HR_DIRECTORY_TOKEN"),
		}
	})
	return directoryConfig
}
