package console

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/hashicorp/go-version"
	"golang.org/x/term"

	"github.com/oshokin/launch-stub/internal/domain/release"
)

// ANSI colour sequences.
const (
	colorReset  = "\x1b[0m"
	colorRed    = "\x1b[31m"
	colorGreen  = "\x1b[32m"
	colorYellow = "\x1b[33m"
)

// PressEnterPrompt is shown before waiting for acknowledgement of a fatal error.
const PressEnterPrompt = "Press enter to continue..."

// Console writes status lines to out and reads acknowledgements from in.
type Console struct {
	mu      sync.Mutex
	out     io.Writer
	in      io.Reader
	colored bool
}

// New returns a Console bound to the process standard streams.
func New() *Console {
	colored := os.Getenv("NO_COLOR") == "" &&
		term.IsTerminal(int(os.Stdout.Fd())) &&
		enableVirtualTerminal(os.Stdout)

	return NewWithIO(os.Stdout, os.Stdin, colored)
}

// NewWithIO returns a Console bound to the given streams.
func NewWithIO(out io.Writer, in io.Reader, colored bool) *Console {
	return &Console{
		out:     out,
		in:      in,
		colored: colored,
	}
}

// CurrentVersion reports the installed version.
func (c *Console) CurrentVersion(v *version.Version) {
	c.println("", "Current version: "+release.DescribeVersion(v))
}

// CheckingForUpdates reports the start of the manifest check.
func (c *Console) CheckingForUpdates() {
	c.println("", "Checking for updates...")
}

// Downloading reports the download of version v.
func (c *Console) Downloading(v *version.Version) {
	c.println("", fmt.Sprintf("Downloading new version... (%s)", release.DescribeVersion(v)))
}

// Downloaded reports a completed package download.
func (c *Console) Downloaded(size int64) {
	c.println("", fmt.Sprintf("Downloaded %s, installing...", formatSize(size)))
}

// UpToDate confirms the installed version is current.
func (c *Console) UpToDate() {
	c.println(colorGreen, "Up to date!")
}

// Warn prints a recoverable problem.
func (c *Console) Warn(message string) {
	c.println(colorYellow, message)
}

// RenderFatal prints err with a headline matching its kind and waits for the user to press enter.
func (c *Console) RenderFatal(err error) {
	if err == nil {
		return
	}

	c.println(colorRed, Headline(err))
	c.println("", PressEnterPrompt)

	// EOF counts as acknowledgement.
	_, _ = bufio.NewReader(c.in).ReadString('\n')
}

// Headline renders err for the user, prefixed by the kind of failure.
func Headline(err error) string {
	var prefix string

	switch release.KindOf(err) {
	case release.KindConfig:
		prefix = "Invalid configuration"
	case release.KindNetwork, release.KindManifestParse, release.KindVersionParse:
		prefix = "Error checking for updates"
	case release.KindInstall:
		prefix = "Unable to install update"
	case release.KindLaunch:
		prefix = "Unable to start program"
	default:
		prefix = "Unexpected error"
	}

	return prefix + ": " + err.Error()
}

// println writes one line, coloured when colour is enabled and requested.
func (c *Console) println(color, line string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.colored && color != "" {
		line = color + line + colorReset
	}

	_, _ = fmt.Fprintln(c.out, line)
}

// formatSize renders a byte count with a binary unit.
func formatSize(size int64) string {
	const unit = 1024

	if size < unit {
		return fmt.Sprintf("%d B", size)
	}

	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}

	return fmt.Sprintf("%.1f %ciB", float64(size)/float64(div), "KMGTPE"[exp])
}
