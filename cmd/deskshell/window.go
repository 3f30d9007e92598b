package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/1broseidon/deskshell/internal/geometry"
	"github.com/1broseidon/deskshell/internal/ipc"
	"github.com/1broseidon/deskshell/internal/shell"
)

func printWindowUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  deskshell window list [--json]")
	fmt.Fprintln(w, "  deskshell window open [--name NAME] [--ref REF] [--icon ICON_ID] [action]")
	fmt.Fprintln(w, "  deskshell window close <id>")
	fmt.Fprintln(w, "  deskshell window request-close <id>")
	fmt.Fprintln(w, "  deskshell window focus|minimize|maximize|toggle|restore <id>")
	fmt.Fprintln(w, "  deskshell window move <id> <x> <y>")
	fmt.Fprintln(w, "  deskshell window resize <id> <width> <height>")
	fmt.Fprintln(w, "  deskshell window drag <id> <x,y> <x,y>...")
	fmt.Fprintln(w, "  deskshell window resize-drag <id> <e|s|se> <x,y> <x,y>")
	fmt.Fprintln(w, "  deskshell window snap <id> <zone>")
	fmt.Fprintln(w, "  deskshell window cycle")
	fmt.Fprintln(w, "  deskshell window tile")
	fmt.Fprintln(w, "  deskshell window minimize-all")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Zones: left, right, top, top-left, top-right, bottom-left, bottom-right, none")
}

// parseArgs parses flags for a subcommand and checks the positional count.
// ok is false when the caller should return code.
func parseArgs(fs *flag.FlagSet, args []string, want int) (code int, ok bool) {
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0, false
		}
		return 2, false
	}
	if want >= 0 && fs.NArg() != want {
		fmt.Fprintf(os.Stderr, "%s expects %d argument(s), got %d\n\n", fs.Name(), want, fs.NArg())
		fs.Usage()
		return 2, false
	}
	return 0, true
}

func subcommand(name, usage string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: deskshell "+usage)
		hasFlags := false
		fs.VisitAll(func(*flag.Flag) { hasFlags = true })
		if hasFlags {
			fmt.Fprintln(os.Stderr, "")
			fmt.Fprintln(os.Stderr, "Flags:")
			fs.PrintDefaults()
		}
	}
	return fs
}

// parsePoint reads "x,y".
func parsePoint(s string) (geometry.Point, error) {
	xs, ys, found := strings.Cut(s, ",")
	if !found {
		return geometry.Point{}, fmt.Errorf("invalid point %q (want x,y)", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return geometry.Point{}, fmt.Errorf("invalid point %q: %w", s, err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return geometry.Point{}, fmt.Errorf("invalid point %q: %w", s, err)
	}
	return geometry.Point{X: x, Y: y}, nil
}

func parseInts(args ...string) ([]int, error) {
	out := make([]int, len(args))
	for i, a := range args {
		v, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", a)
		}
		out[i] = v
	}
	return out, nil
}

func printWindowResult(data *ipc.WindowData) {
	if data.Bounds != nil {
		b := data.Bounds
		fmt.Printf("%s %d,%d %dx%d\n", data.WindowID, b.X, b.Y, b.Width, b.Height)
		return
	}
	fmt.Println(data.WindowID)
}

func runWindow(args []string) int {
	if len(args) == 0 {
		printWindowUsage(os.Stderr)
		return 2
	}
	if isHelpArg(args) {
		printWindowUsage(os.Stdout)
		return 0
	}

	client := ipc.NewClient()
	sub, rest := args[0], args[1:]

	switch sub {
	case "list":
		fs := subcommand("list", "window list [--json]")
		jsonOut := fs.Bool("json", false, "Output windows as JSON")
		if code, ok := parseArgs(fs, rest, 0); !ok {
			return code
		}
		data, err := client.ListWindows()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		if *jsonOut {
			return printJSON(data)
		}
		fmt.Printf("viewport: %dx%d taskbar: %d\n", data.Viewport.Width, data.Viewport.Height, data.TaskbarHeight)
		// Topmost first reads better in a terminal.
		for i := len(data.Windows) - 1; i >= 0; i-- {
			w := data.Windows[i]
			marker := " "
			if w.Active {
				marker = "*"
			}
			b := w.Effective
			fmt.Printf("%s %-10s %-16s %-10s %5d,%-5d %5dx%-5d\n", marker, w.ID, w.Title, w.State, b.X, b.Y, b.Width, b.Height)
		}
		return 0

	case "open":
		fs := subcommand("open", "window open [--name NAME] [--ref REF] [--icon ICON_ID] [action]")
		name := fs.String("name", "", "Document name for text-file")
		ref := fs.String("ref", "", "Folder id for folder")
		icon := fs.String("icon", "", "Open the action behind this desktop icon")
		if code, ok := parseArgs(fs, rest, -1); !ok {
			return code
		}
		action := fs.Arg(0)
		if action == "" && *icon == "" {
			fmt.Fprintln(os.Stderr, "window open requires an action or --icon")
			fs.Usage()
			return 2
		}
		id, err := client.OpenAction(ipc.OpenActionPayload{Action: action, Name: *name, Ref: *ref, IconID: *icon})
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println(id)
		return 0

	case "close", "request-close":
		fs := subcommand(sub, "window "+sub+" <id>")
		if code, ok := parseArgs(fs, rest, 1); !ok {
			return code
		}
		closeFn := client.Close
		if sub == "request-close" {
			closeFn = client.RequestClose
		}
		data, err := closeFn(fs.Arg(0))
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Printf("%s %s\n", data.WindowID, data.Outcome)
		if data.Outcome == "vetoed" {
			return 1
		}
		return 0

	case "focus", "minimize", "maximize", "toggle", "restore":
		fs := subcommand(sub, "window "+sub+" <id>")
		if code, ok := parseArgs(fs, rest, 1); !ok {
			return code
		}
		ops := map[string]func(string) (*ipc.WindowData, error){
			"focus":    client.Focus,
			"minimize": client.Minimize,
			"maximize": client.Maximize,
			"toggle":   client.ToggleMaximize,
			"restore":  client.Restore,
		}
		data, err := ops[sub](fs.Arg(0))
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		printWindowResult(data)
		return 0

	case "move", "resize":
		usage := "window move <id> <x> <y>"
		if sub == "resize" {
			usage = "window resize <id> <width> <height>"
		}
		fs := subcommand(sub, usage)
		if code, ok := parseArgs(fs, rest, 3); !ok {
			return code
		}
		nums, err := parseInts(fs.Arg(1), fs.Arg(2))
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
		var data *ipc.WindowData
		if sub == "move" {
			data, err = client.Move(fs.Arg(0), nums[0], nums[1])
		} else {
			data, err = client.Resize(fs.Arg(0), nums[0], nums[1])
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		printWindowResult(data)
		return 0

	case "drag":
		fs := subcommand("drag", "window drag <id> <x,y> <x,y>...")
		if code, ok := parseArgs(fs, rest, -1); !ok {
			return code
		}
		if fs.NArg() < 2 {
			fmt.Fprintln(os.Stderr, "window drag needs a window id and at least one point")
			fs.Usage()
			return 2
		}
		path := make([]geometry.Point, 0, fs.NArg()-1)
		for _, arg := range fs.Args()[1:] {
			p, err := parsePoint(arg)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return 2
			}
			path = append(path, p)
		}
		res, err := client.Drag(fs.Arg(0), path)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		b := res.Bounds
		fmt.Printf("%s %d,%d %dx%d zone=%s snapped=%v\n", res.WindowID, b.X, b.Y, b.Width, b.Height, res.Zone, res.Snapped)
		return 0

	case "resize-drag":
		fs := subcommand("resize-drag", "window resize-drag <id> <e|s|se> <x,y> <x,y>")
		if code, ok := parseArgs(fs, rest, 4); !ok {
			return code
		}
		if _, err := geometry.ParseResizeEdge(fs.Arg(1)); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
		from, err := parsePoint(fs.Arg(2))
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
		to, err := parsePoint(fs.Arg(3))
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
		res, err := client.ResizeDrag(fs.Arg(0), fs.Arg(1), from, to)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Printf("%s %dx%d\n", res.WindowID, res.Bounds.Width, res.Bounds.Height)
		return 0

	case "snap":
		fs := subcommand("snap", "window snap <id> <zone>")
		if code, ok := parseArgs(fs, rest, 2); !ok {
			return code
		}
		if _, err := geometry.ParseSnapZone(fs.Arg(1)); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
		data, err := client.Snap(fs.Arg(0), fs.Arg(1))
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		printWindowResult(data)
		return 0

	case "cycle":
		fs := subcommand("cycle", "window cycle")
		if code, ok := parseArgs(fs, rest, 0); !ok {
			return code
		}
		data, err := client.Cycle()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		printWindowResult(data)
		return 0

	case "tile":
		fs := subcommand("tile", "window tile")
		if code, ok := parseArgs(fs, rest, 0); !ok {
			return code
		}
		data, err := client.TileAll()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Printf("tiled %d window(s)\n", len(data.WindowIDs))
		return 0

	case "minimize-all":
		fs := subcommand("minimize-all", "window minimize-all")
		if code, ok := parseArgs(fs, rest, 0); !ok {
			return code
		}
		data, err := client.MinimizeAll()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Printf("minimized %d window(s)\n", data.Minimized)
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown window command: %s\n\n", sub)
		printWindowUsage(os.Stderr)
		return 2
	}
}

func runShortcut(args []string) int {
	fs := subcommand("shortcut", "shortcut <name>")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: deskshell shortcut <name>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Shortcuts:")
		for _, sc := range shell.Shortcuts() {
			fmt.Fprintf(os.Stderr, "  %s\n", sc)
		}
	}
	if code, ok := parseArgs(fs, args, 1); !ok {
		return code
	}
	if _, err := shell.ParseShortcut(fs.Arg(0)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	res, err := ipc.NewClient().Shortcut(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Print(res.Shortcut)
	if res.WindowID != "" {
		fmt.Printf(" window=%s", res.WindowID)
	}
	if res.Outcome != "" {
		fmt.Printf(" outcome=%s", res.Outcome)
	}
	if res.Minimized > 0 {
		fmt.Printf(" minimized=%d", res.Minimized)
	}
	fmt.Println()
	return 0
}
