// Package cli provides the command-line interface with injectable io.Writer for testing.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/mcdonaldj/vszipper/internal/config"
	"github.com/mcdonaldj/vszipper/internal/verify"
	"github.com/mcdonaldj/vszipper/internal/zipper"
)

// ConfigService provides configuration operations for the CLI.
type ConfigService interface {
	Load(path string) (*config.Config, error)
	Save(cfg *config.Config, path string) error
	DefaultConfig() *config.Config
}

// ZipService provides archive operations for the CLI.
type ZipService interface {
	// ResolveName returns the archive name that would be used for root.
	ResolveName(cfg *config.Config, root string) (string, error)
	// Zip archives root into output; an empty output resolves the name first.
	Zip(ctx context.Context, cfg *config.Config, root, output string) (*zipper.Result, error)
}

// VerifyService provides archive verification for the CLI.
type VerifyService interface {
	Verify(zipPath, root string) (*verify.Report, error)
}

// CLI represents the command-line interface with injectable dependencies.
type CLI struct {
	Out     io.Writer // Standard output
	Err     io.Writer // Standard error
	Version string    // Application version
	Args    []string  // Command arguments (like os.Args)

	// Exit function for testability (defaults to os.Exit)
	Exit func(code int)

	// BaseDir returns the directory archived when no command is given.
	// Defaults to the directory holding the running executable.
	BaseDir func() (string, error)

	// Injectable dependencies (nil means use defaults)
	ConfigSvc ConfigService
	ZipSvc    ZipService
	VerifySvc VerifyService

	// Color functions (can be disabled for testing)
	green  func(a ...interface{}) string
	yellow func(a ...interface{}) string
	cyan   func(a ...interface{}) string
	gray   func(a ...interface{}) string
	red    func(a ...interface{}) string

	// Parsed flags
	configPath string
	verbose    bool
}

// New creates a new CLI with default settings.
func New(version string) *CLI {
	c := &CLI{
		Out:     os.Stdout,
		Err:     os.Stderr,
		Version: version,
		Args:    os.Args,
		Exit:    os.Exit,
		BaseDir: executableDir,
	}
	c.setColors(isTerminal(os.Stdout))
	return c
}

// NewForTesting creates a CLI configured for testing (no colors, captured output).
func NewForTesting(out, errOut io.Writer, args []string) *CLI {
	c := &CLI{
		Out:     out,
		Err:     errOut,
		Version: "test",
		Args:    args,
		Exit:    func(int) {},
		BaseDir: executableDir,
	}
	c.setColors(false)
	return c
}

func (c *CLI) setColors(enabled bool) {
	if !enabled {
		noColor := func(a ...interface{}) string { return fmt.Sprint(a...) }
		c.green, c.yellow, c.cyan, c.gray, c.red = noColor, noColor, noColor, noColor, noColor
		return
	}
	sprint := func(attrs ...color.Attribute) func(a ...interface{}) string {
		col := color.New(attrs...)
		col.EnableColor()
		return col.SprintFunc()
	}
	c.green = sprint(color.FgGreen, color.Bold)
	c.yellow = sprint(color.FgYellow)
	c.cyan = sprint(color.FgCyan)
	c.gray = sprint(color.FgHiBlack)
	c.red = sprint(color.FgRed)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func executableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// Helper methods to get the service or default
func (c *CLI) configSvc() ConfigService {
	if c.ConfigSvc != nil {
		return c.ConfigSvc
	}
	return &defaultConfigService{}
}

func (c *CLI) zipSvc() ZipService {
	if c.ZipSvc != nil {
		return c.ZipSvc
	}
	return newDefaultZipService()
}

func (c *CLI) verifySvc() VerifyService {
	if c.VerifySvc != nil {
		return c.VerifySvc
	}
	return verify.NewDefaultService()
}

// parseArgs splits flags from positional arguments. Positional arguments
// start with the command name.
func (c *CLI) parseArgs() []string {
	var pos []string
	for _, arg := range c.Args[1:] {
		switch {
		case strings.HasPrefix(arg, "--config="):
			c.configPath = strings.TrimPrefix(arg, "--config=")
		case arg == "--verbose":
			c.verbose = true
		default:
			pos = append(pos, arg)
		}
	}
	return pos
}

// Run executes the CLI with the configured arguments.
func (c *CLI) Run() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if len(c.Args) == 0 {
		c.Args = []string{"vszipper"}
	}
	pos := c.parseArgs()

	if len(pos) == 0 {
		c.ZipBaseDir(ctx)
		return
	}

	switch pos[0] {
	case "zip":
		c.RunZip(ctx, pos[1:])
	case "name":
		c.ShowName(pos[1:])
	case "verify":
		c.RunVerify(pos[1:])
	case "init":
		c.InitConfig(pos[1:])
	case "version", "-v", "--version":
		fmt.Fprintf(c.Out, "vszipper v%s\n", c.Version)
	case "help", "-h", "--help":
		c.PrintUsage()
	default:
		fmt.Fprintf(c.Err, "Unknown command: %s\n", pos[0])
		c.PrintUsage()
		c.Exit(1)
	}
}

// PrintUsage prints the help message.
func (c *CLI) PrintUsage() {
	fmt.Fprintln(c.Out, `vszipper - Zip a project folder, skipping build output

Usage:
  vszipper                          Zip the directory holding the vszipper binary
  vszipper zip [root] [output]      Zip root (default: current directory) into output
  vszipper name [root]              Print the archive name that would be used
  vszipper verify <zip> [root]      Check archive entries against the files in root
  vszipper init [dir]               Write a default vszipper.yaml to dir
  vszipper version, -v              Show version
  vszipper help, -h                 Show this help

Flags:
  --config=PATH                     Config file (default: <root>/vszipper.yaml)
  --verbose                         List every archived file`)
}

// loadConfig loads the config for root, honoring --config.
func (c *CLI) loadConfig(root string) (*config.Config, bool) {
	path := c.configPath
	if path == "" {
		path = config.ConfigPath(root)
	}
	cfg, err := c.configSvc().Load(path)
	if err != nil {
		fmt.Fprintf(c.Err, "Error loading config: %v\n", err)
		c.Exit(1)
		return nil, false
	}
	return cfg, true
}

// expandRoot expands ~ and makes root absolute.
func (c *CLI) expandRoot(root string) (string, bool) {
	expanded, err := config.ExpandPath(root)
	if err == nil {
		expanded, err = filepath.Abs(expanded)
	}
	if err != nil {
		fmt.Fprintf(c.Err, "Error: %v\n", err)
		c.Exit(1)
		return "", false
	}
	return expanded, true
}

// ZipBaseDir zips the program's base directory into a resolved archive name.
func (c *CLI) ZipBaseDir(ctx context.Context) {
	root, err := c.BaseDir()
	if err != nil {
		fmt.Fprintf(c.Err, "Error locating base directory: %v\n", err)
		c.Exit(1)
		return
	}
	c.zip(ctx, root, "")
}

// RunZip runs the zip command.
func (c *CLI) RunZip(ctx context.Context, args []string) {
	root := "."
	output := ""
	if len(args) > 0 {
		root = args[0]
	}
	if len(args) > 1 {
		output = args[1]
	}
	if len(args) > 2 {
		fmt.Fprintln(c.Out, "Usage: vszipper zip [root] [output]")
		c.Exit(1)
		return
	}
	c.zip(ctx, root, output)
}

func (c *CLI) zip(ctx context.Context, root, output string) {
	root, ok := c.expandRoot(root)
	if !ok {
		return
	}
	cfg, ok := c.loadConfig(root)
	if !ok {
		return
	}

	timeout, err := cfg.TimeoutDuration()
	if err != nil {
		fmt.Fprintf(c.Err, "Error: %v\n", err)
		c.Exit(1)
		return
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	fmt.Fprintf(c.Out, "%s Zipping %s...\n", c.cyan("=>"), root)
	if c.verbose {
		fmt.Fprintf(c.Out, "  %s %s\n", c.gray("Excluding:"), strings.Join(cfg.Exclusions, " "))
	}

	res, err := c.zipSvc().Zip(ctx, cfg, root, output)
	if res == nil {
		res = &zipper.Result{}
	}
	c.reportFiles(res)
	if err != nil {
		c.reportError(zipper.ComponentOf(err), err)
		c.Exit(1)
		return
	}

	size := ""
	if info, statErr := os.Stat(res.OutputPath); statErr == nil {
		size = ", " + FormatSize(info.Size())
	}
	fmt.Fprintf(c.Out, "%s Process Complete: %s (%s files%s)\n",
		c.green("*"),
		res.OutputPath,
		c.yellow(fmt.Sprintf("%d", len(res.Entries))),
		size)
}

// reportFiles logs skipped files always, and written or excluded files in verbose mode.
func (c *CLI) reportFiles(res *zipper.Result) {
	if c.verbose {
		for _, name := range res.Entries {
			fmt.Fprintf(c.Out, "  %s %s\n", c.green("+"), name)
		}
		for _, path := range res.Excluded {
			fmt.Fprintf(c.Out, "  %s %s\n", c.gray("-"), c.gray(path))
		}
	}
	for _, s := range res.Skipped {
		fmt.Fprintf(c.Out, "  %s %s %s\n", c.yellow("!"), s.Path, c.gray("("+s.Err.Error()+")"))
	}
}

// reportError prints err tagged with the component that raised it, when known.
func (c *CLI) reportError(component string, err error) {
	if component == "" {
		fmt.Fprintf(c.Err, "%s %v\n", c.red("x"), err)
		return
	}
	fmt.Fprintf(c.Err, "%s [%s] %v\n", c.red("x"), component, err)
}

// ShowName prints the archive name resolved for root.
func (c *CLI) ShowName(args []string) {
	root := "."
	if len(args) > 0 {
		root = args[0]
	}
	root, ok := c.expandRoot(root)
	if !ok {
		return
	}
	cfg, ok := c.loadConfig(root)
	if !ok {
		return
	}

	name, err := c.zipSvc().ResolveName(cfg, root)
	if err != nil {
		c.reportError(zipper.ComponentOf(err), err)
		c.Exit(1)
		return
	}
	fmt.Fprintln(c.Out, name)
}

// RunVerify checks an archive against its source directory.
func (c *CLI) RunVerify(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(c.Out, "Usage: vszipper verify <zip> [root]")
		c.Exit(1)
		return
	}

	zipPath, ok := c.expandRoot(args[0])
	if !ok {
		return
	}
	root := filepath.Dir(zipPath)
	if len(args) > 1 {
		if root, ok = c.expandRoot(args[1]); !ok {
			return
		}
	}

	report, err := c.verifySvc().Verify(zipPath, root)
	if err != nil {
		fmt.Fprintf(c.Err, "Verification failed: %v\n", err)
		c.Exit(1)
		return
	}

	for _, name := range report.Missing {
		fmt.Fprintf(c.Out, "  %s %s %s\n", c.red("x"), name, c.gray("(missing from "+root+")"))
	}
	for _, name := range report.Mismatched {
		fmt.Fprintf(c.Out, "  %s %s %s\n", c.red("x"), name, c.gray("(content differs)"))
	}

	if !report.OK() {
		fmt.Fprintf(c.Err, "Verification failed: %d of %d entries differ\n",
			len(report.Missing)+len(report.Mismatched), report.Checked)
		c.Exit(1)
		return
	}

	fmt.Fprintf(c.Out, "%s Verified %d entries in %s\n", c.green("*"), report.Checked, zipPath)
	fmt.Fprintf(c.Out, "  SHA256: %s\n", c.gray(report.SHA256))
}

// InitConfig writes the default config file.
func (c *CLI) InitConfig(args []string) {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	dir, ok := c.expandRoot(dir)
	if !ok {
		return
	}

	path := c.configPath
	if path == "" {
		path = config.ConfigPath(dir)
	}

	svc := c.configSvc()
	if err := svc.Save(svc.DefaultConfig(), path); err != nil {
		fmt.Fprintf(c.Err, "Error saving config: %v\n", err)
		c.Exit(1)
		return
	}
	fmt.Fprintf(c.Out, "Created config at %s\n", path)
}

// FormatSize formats bytes as human-readable
func FormatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
