package main

import (
	"log/slog"

	"github.com/fsnotify/fsnotify"

	"form-binder/binder"
)

// watchOptions reloads the options file whenever it is rewritten, pushing the
// parsed result to out. The latest unconsumed reload wins.
func watchOptions(path string, out chan binder.Options, log *slog.Logger) (stop func(), err error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := w.Add(path); err != nil {
		w.Close()
		return nil, err
	}

	go func() {
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}

				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
					continue
				}

				opts, err := binder.LoadOptions(path)
				if err != nil {
					log.Error("reloading options", "err", err)
					continue
				}

				select {
				case out <- opts:
				default:
					// Drop the stale pending reload and queue the new one.
					select {
					case <-out:
					default:
					}
					out <- opts
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Error("options watcher", "err", err)
			}
		}
	}()

	return func() { w.Close() }, nil
}
