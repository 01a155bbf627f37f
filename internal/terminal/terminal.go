package terminal

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/nfnt/resize"
	"golang.org/x/term"
)

const (
	kittyChunkSize = 4096
	kittyImageID   = 7031

	// approximate pixel size of one cell, used to size kitty uploads
	cellPixelWidth  = 10
	cellPixelHeight = 20
)

type Capabilities struct {
	SupportsKittyGraphics bool
	TermProgram           string
}

// DetectCapabilities reads what the terminal can do from the environment.
// Kitty graphics are opt-in through LYRICPANE_KITTY_GRAPHICS.
func DetectCapabilities() *Capabilities {
	caps := &Capabilities{TermProgram: os.Getenv("TERM_PROGRAM")}

	switch strings.ToLower(os.Getenv("LYRICPANE_KITTY_GRAPHICS")) {
	case "1", "true", "yes", "on":
		caps.SupportsKittyGraphics = true
		if caps.TermProgram == "" {
			caps.TermProgram = "kitty"
		}
	}

	return caps
}

// Size reports the terminal dimensions of fd in rows and columns.
func Size(fd uintptr) (int, int, error) {
	cols, rows, err := term.GetSize(int(fd))
	if err != nil {
		return 0, 0, fmt.Errorf("failed to query terminal size: %w", err)
	}
	return rows, cols, nil
}

// IsTerminal reports whether fd is attached to a terminal.
func IsTerminal(fd uintptr) bool {
	return term.IsTerminal(int(fd))
}

// Reset puts the terminal back the way a shell expects it: cursor shown,
// attributes cleared, alt screen and mouse reporting off, kitty images gone.
func Reset(w io.Writer) {
	io.WriteString(w, DeleteKittyImages())
	io.WriteString(w, "\033[?25h")
	io.WriteString(w, "\033[0m")
	io.WriteString(w, "\033[?1049l")
	io.WriteString(w, "\033[?1000l")
	io.WriteString(w, "\033[?1002l")
	io.WriteString(w, "\033[?1003l")
	io.WriteString(w, "\033[?1006l")
	if f, ok := w.(*os.File); ok {
		_ = f.Sync()
	}
}

// Guard restores the terminal when the process is told to stop by a signal.
// Release it on normal exit; it also resets the terminal then, so it is safe
// to defer right after taking over the screen.
type Guard struct {
	out     io.Writer
	signals chan os.Signal
	done    chan struct{}
	once    sync.Once
}

// NewGuard starts watching SIGINT, SIGTERM and SIGHUP. onSignal runs after
// the reset, typically to stop the program.
func NewGuard(out io.Writer, onSignal func(os.Signal)) *Guard {
	g := &Guard{
		out:     out,
		signals: make(chan os.Signal, 1),
		done:    make(chan struct{}),
	}
	signal.Notify(g.signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	go func() {
		select {
		case sig := <-g.signals:
			g.Release()
			if onSignal != nil {
				onSignal(sig)
			}
		case <-g.done:
		}
	}()

	return g
}

func (g *Guard) Release() {
	g.once.Do(func() {
		signal.Stop(g.signals)
		close(g.done)
		Reset(g.out)
	})
}

// EncodeImageForKitty uploads img scaled to fit cols x rows cells and places
// it at the cursor. An empty string means the image could not be encoded.
func EncodeImageForKitty(img image.Image, cols int, rows int) string {
	if img == nil || cols <= 0 || rows <= 0 {
		return ""
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width == 0 || height == 0 {
		return ""
	}

	newWidth := uint(cols * cellPixelWidth)
	newHeight := uint(rows * cellPixelHeight)

	aspect := float64(width) / float64(height)
	if aspect > float64(newWidth)/float64(newHeight) {
		newHeight = uint(float64(newWidth) / aspect)
	} else {
		newWidth = uint(float64(newHeight) * aspect)
	}
	newWidth = max(newWidth, cellPixelWidth)
	newHeight = max(newHeight, cellPixelWidth)

	resized := resize.Resize(newWidth, newHeight, img, resize.Lanczos3)

	var buf bytes.Buffer
	if err := png.Encode(&buf, resized); err != nil {
		return ""
	}
	encoded := base64.StdEncoding.EncodeToString(buf.Bytes())

	var out strings.Builder
	for i := 0; i < len(encoded); i += kittyChunkSize {
		end := min(i+kittyChunkSize, len(encoded))

		more := 1
		if end >= len(encoded) {
			more = 0
		}

		if i == 0 {
			fmt.Fprintf(&out, "\x1b_Ga=T,q=2,f=100,i=%d,C=1,c=%d,r=%d,m=%d;%s\x1b\\", kittyImageID, cols, rows, more, encoded[i:end])
		} else {
			fmt.Fprintf(&out, "\x1b_Gm=%d;%s\x1b\\", more, encoded[i:end])
		}
	}

	return out.String()
}

// DeleteKittyImages removes every image this program placed.
func DeleteKittyImages() string {
	return fmt.Sprintf("\x1b_Ga=d,d=I,i=%d,q=2\x1b\\", kittyImageID)
}
