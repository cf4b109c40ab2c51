package config

import (
	"log/slog"
	"path/filepath"
)

const (
	appfile    = "AppConfig.json"
	sourcefile = "SourceConfig.json"
)

// Init loads AppConfig.json and SourceConfig.json from dir
// AppConfig.json is watched and hot updated,SourceConfig.json is read once
// notice is a sync function,it is called after every successful AppConfig update,don't write block logic inside it
func Init(dir string, notice func(c *AppConfig)) error {
	if dir == "" {
		dir = "./"
	}
	if e := initsource(filepath.Join(dir, sourcefile)); e != nil {
		return e
	}
	if e := initapp(dir, notice); e != nil {
		return e
	}
	slog.Info("[config.Init] success", slog.String("dir", dir))
	return nil
}

// Close stops the AppConfig hot update
func Close() {
	stopapp()
}
