package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Audio   AudioConfig   `yaml:"audio"`
	Tools   ToolsConfig   `yaml:"tools"`
	Probe   ProbeConfig   `yaml:"probe"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

type AudioConfig struct {
	ChunkFrames int `yaml:"chunk_frames"`
}

type ToolsConfig struct {
	FFmpegPath  string `yaml:"ffmpeg_path"`
	FFprobePath string `yaml:"ffprobe_path"`
	BundledDir  string `yaml:"bundled_dir"`
}

type ProbeConfig struct {
	CacheCapacity int `yaml:"cache_capacity"`
}

func Load(path string) (*Config, error) {
	cfg := &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Pretty: true,
		},
		Audio: AudioConfig{
			ChunkFrames: 1024,
		},
		Tools: ToolsConfig{
			BundledDir: "",
		},
		Probe: ProbeConfig{
			CacheCapacity: 256,
		},
	}

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if cfg.Audio.ChunkFrames < 1 {
		cfg.Audio.ChunkFrames = 1024
	}
	if cfg.Probe.CacheCapacity < 1 {
		cfg.Probe.CacheCapacity = 256
	}

	return cfg, nil
}
