// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package transcript

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sys/unix"

	"github.com/bureau-foundation/listview/lib/clock"
)

// DefaultDebounce coalesces bursts of writes into one re-read.
const DefaultDebounce = 50 * time.Millisecond

// Update reports a change to a watched transcript.
type Update struct {
	// Entries are the appended entries, or the whole transcript when
	// Reset is set.
	Entries []Entry

	// Reset is set when earlier entries changed or disappeared (the
	// file was truncated or rewritten), so the receiver must replace
	// rather than append.
	Reset bool
}

// WatchOptions configures Watch.
type WatchOptions struct {
	// Clock schedules the debounced re-read. Defaults to clock.Real().
	Clock clock.Clock

	// Debounce is the quiet period after a file event before the file
	// is re-read. Defaults to DefaultDebounce.
	Debounce time.Duration

	// Logger receives read failures. Defaults to slog.Default().
	Logger *slog.Logger
}

// Watch reads the transcript at path and then follows it. onUpdate is
// called from the watcher's goroutine (or the clock's) with every
// settled change. The returned entries are the initial contents; the
// stop function ends the watcher and is safe to call more than once.
//
// The watcher monitors the parent directory for IN_CLOSE_WRITE,
// IN_MODIFY and IN_MOVED_TO events on the target filename, which
// covers appends, in-place writes, and atomic renames.
func Watch(path string, onUpdate func(Update), options WatchOptions) ([]Entry, func(), error) {
	absolutePath, err := filepath.Abs(path)
	if err != nil {
		return nil, nil, err
	}
	initial, err := readSnapshot(absolutePath)
	if err != nil {
		return nil, nil, err
	}

	if options.Clock == nil {
		options.Clock = clock.Real()
	}
	if options.Debounce <= 0 {
		options.Debounce = DefaultDebounce
	}
	if options.Logger == nil {
		options.Logger = slog.Default()
	}

	// Watching the directory (not the file) catches atomic renames:
	// tools that write a temp file and rename it create a new inode.
	fd, err := unix.InotifyInit1(unix.IN_NONBLOCK | unix.IN_CLOEXEC)
	if err != nil {
		return nil, nil, fmt.Errorf("inotify init: %w", err)
	}
	_, err = unix.InotifyAddWatch(fd, filepath.Dir(absolutePath),
		unix.IN_CLOSE_WRITE|unix.IN_MODIFY|unix.IN_MOVED_TO)
	if err != nil {
		unix.Close(fd)
		return nil, nil, fmt.Errorf("inotify watch %s: %w", filepath.Dir(absolutePath), err)
	}

	watcher := &watcher{
		path:     absolutePath,
		filename: filepath.Base(absolutePath),
		clock:    options.Clock,
		debounce: options.Debounce,
		logger:   options.Logger,
		onUpdate: onUpdate,
		previous: initial,
		stop:     make(chan struct{}),
	}
	go watcher.loop(fd)

	var once sync.Once
	stop := func() {
		once.Do(func() {
			close(watcher.stop)
			watcher.mu.Lock()
			if watcher.pending != nil {
				watcher.pending.Stop()
			}
			watcher.stopped = true
			watcher.mu.Unlock()
		})
	}
	return initial.entries, stop, nil
}

type watcher struct {
	path     string
	filename string
	clock    clock.Clock
	debounce time.Duration
	logger   *slog.Logger
	onUpdate func(Update)
	stop     chan struct{}

	// reloading is held for a whole reload, read and delivery
	// included, so snapshots are diffed and reported in file order.
	reloading sync.Mutex

	mu       sync.Mutex
	pending  *clock.Timer
	stopped  bool
	previous snapshot
}

// loop polls the inotify fd with a 100ms timeout so the stop channel
// is checked regularly.
func (w *watcher) loop(fd int) {
	defer unix.Close(fd)

	buffer := make([]byte, 4096)
	for {
		select {
		case <-w.stop:
			return
		default:
		}

		pollDescriptors := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
		count, err := unix.Poll(pollDescriptors, 100)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			w.logger.Warn("transcript watcher stopped", "path", w.path, "error", err)
			return
		}
		if count == 0 {
			continue
		}

		bytesRead, err := unix.Read(fd, buffer)
		if err != nil {
			if err == unix.EAGAIN || err == unix.EINTR {
				continue
			}
			w.logger.Warn("transcript watcher stopped", "path", w.path, "error", err)
			return
		}
		if inotifyMatchesFile(buffer[:bytesRead], w.filename) {
			w.schedule()
		}
	}
}

// schedule (re)arms the debounce timer.
func (w *watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	if w.pending != nil {
		w.pending.Stop()
	}
	w.pending = w.clock.AfterFunc(w.debounce, w.reload)
}

func (w *watcher) reload() {
	w.reloading.Lock()
	defer w.reloading.Unlock()

	current, err := readSnapshot(w.path)
	if err != nil {
		// The file may be mid-write or briefly absent during an atomic
		// replace; the completing write triggers another event.
		w.logger.Debug("transcript re-read failed", "path", w.path, "error", err)
		return
	}

	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	update, changed := diffSnapshots(w.previous, current)
	w.previous = current
	w.mu.Unlock()

	if changed {
		w.onUpdate(update)
	}
}

// diffSnapshots classifies the change from previous to current. When
// every previous record is unchanged the new tail is an append;
// otherwise the whole transcript is a reset.
func diffSnapshots(previous, current snapshot) (Update, bool) {
	if len(current.digests) < len(previous.digests) {
		return Update{Entries: current.entries, Reset: true}, true
	}
	for index := range previous.digests {
		if previous.digests[index] != current.digests[index] {
			return Update{Entries: current.entries, Reset: true}, true
		}
	}
	if len(current.digests) == len(previous.digests) {
		return Update{}, false
	}
	return Update{Entries: current.entries[len(previous.digests):]}, true
}

// inotifyMatchesFile checks whether any inotify event in the buffer
// names the target file. Layout from inotify(7):
//
//	struct inotify_event {
//	    int32_t  wd;     // offset 0
//	    uint32_t mask;   // offset 4
//	    uint32_t cookie; // offset 8
//	    uint32_t len;    // offset 12
//	    char     name[]; // offset 16, null-padded to alignment
//	};
func inotifyMatchesFile(buffer []byte, targetFilename string) bool {
	offset := 0
	for offset+unix.SizeofInotifyEvent <= len(buffer) {
		nameLength := int(binary.NativeEndian.Uint32(buffer[offset+12 : offset+16]))
		eventSize := unix.SizeofInotifyEvent + nameLength
		if offset+eventSize > len(buffer) {
			break
		}
		if nameLength > 0 {
			name := buffer[offset+unix.SizeofInotifyEvent : offset+eventSize]
			if end := bytes.IndexByte(name, 0); end >= 0 {
				name = name[:end]
			}
			if string(name) == targetFilename {
				return true
			}
		}
		offset += eventSize
	}
	return false
}
