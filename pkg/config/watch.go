package config

import (
	"fmt"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// Watch reloads the configuration whenever its file changes and hands the
// new config to onReload. It blocks until stop is closed or the watcher
// fails. Reload errors are logged and the previous config stays in effect.
func Watch(current *Config, onReload func(*Config), stop <-chan struct{}) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(current.ConfigFilePath()); err != nil {
		return fmt.Errorf("failed to watch %s: %w", current.ConfigFilePath(), err)
	}

	logrus.WithField("path", current.ConfigFilePath()).Info("watching configuration file")

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			reloaded, err := Load()
			if err != nil {
				logrus.WithError(err).Error("configuration reload failed, keeping previous config")
				continue
			}
			if err := reloaded.Validate(); err != nil {
				logrus.WithError(err).Error("reloaded configuration is invalid, keeping previous config")
				continue
			}

			logrus.Info("configuration reloaded")
			onReload(reloaded)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logrus.WithError(err).Error("configuration watcher error")

		case <-stop:
			return nil
		}
	}
}
