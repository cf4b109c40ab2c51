package config

import (
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/chenjie199234/Dictionary/cerror"
	"github.com/chenjie199234/Dictionary/log"

	"github.com/fsnotify/fsnotify"
)

// AppConfig can hot update
type AppConfig struct {
	//missing or <0: default 2
	//0: only the exact word can be suggested
	SuggestMaxDistance int `json:"suggest_max_distance"`
	//<=0: default 10
	SuggestLimit int `json:"suggest_limit"`
	//freeze the dictionary after all sources are loaded,the add command will fail
	FreezeAfterLoad bool `json:"freeze_after_load"`
	//debug,info,warning,error
	//empty means keep the level from os env LOG_LEVEL
	LogLevel string `json:"log_level"`
}

// every time update AppConfig will call this function
func validateAppConfig(ac *AppConfig) error {
	if ac.SuggestMaxDistance < 0 {
		ac.SuggestMaxDistance = 2
	}
	if ac.SuggestLimit <= 0 {
		ac.SuggestLimit = 10
	}
	if ac.LogLevel != "" {
		lv, e := log.ParseLevel(ac.LogLevel)
		if e != nil {
			return cerror.Annotate(cerror.ErrConfig, e.Error())
		}
		log.SetLevel(lv)
	}
	return nil
}

var ac atomic.Pointer[AppConfig]

var watcher *fsnotify.Watcher

// AC returns the current AppConfig,nil before Init
func AC() *AppConfig {
	return ac.Load()
}

func readapp(path string) (*AppConfig, error) {
	data, e := os.ReadFile(path)
	if e != nil {
		return nil, e
	}
	c := &AppConfig{SuggestMaxDistance: 2, SuggestLimit: 10}
	if e = json.Unmarshal(data, c); e != nil {
		return nil, cerror.Annotate(cerror.ErrConfig, e.Error())
	}
	if e = validateAppConfig(c); e != nil {
		return nil, e
	}
	return c, nil
}

func initapp(dir string, notice func(*AppConfig)) error {
	if watcher != nil {
		return errors.New("[config] already initialized")
	}
	path := filepath.Join(dir, appfile)
	c, e := readapp(path)
	if e != nil {
		slog.Error("[config.initapp] read config file failed", slog.String("path", path), slog.String("error", e.Error()))
		return e
	}
	ac.Store(c)
	slog.Info("[config.initapp] update success", slog.Any("config", c))
	if notice != nil {
		notice(c)
	}
	w, e := fsnotify.NewWatcher()
	if e != nil {
		slog.Error("[config.initapp] create watcher for hot update failed", slog.String("error", e.Error()))
		return e
	}
	if e = w.Add(dir); e != nil {
		w.Close()
		slog.Error("[config.initapp] create watcher for hot update failed", slog.String("error", e.Error()))
		return e
	}
	watcher = w
	go func() {
		for {
			select {
			case event, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Base(event.Name) != appfile || (!event.Has(fsnotify.Create) && !event.Has(fsnotify.Write)) {
					continue
				}
				c, e := readapp(path)
				if e != nil {
					slog.Error("[config.initapp] hot update failed", slog.String("path", path), slog.String("error", e.Error()))
					continue
				}
				ac.Store(c)
				slog.Info("[config.initapp] update success", slog.Any("config", c))
				if notice != nil {
					notice(c)
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				slog.Error("[config.initapp] hot update watcher failed", slog.String("error", err.Error()))
			}
		}
	}()
	return nil
}

func stopapp() {
	if watcher != nil {
		watcher.Close()
		watcher = nil
	}
}
