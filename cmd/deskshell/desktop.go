package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/1broseidon/deskshell/internal/ipc"
	"github.com/1broseidon/deskshell/internal/storage"
)

func printIconsUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  deskshell icons list [--json]")
	fmt.Fprintln(w, "  deskshell icons add <folder|text>")
	fmt.Fprintln(w, "  deskshell icons move [--select id,id] <id> <x> <y>")
	fmt.Fprintln(w, "  deskshell icons rename <id> <name>")
	fmt.Fprintln(w, "  deskshell icons remove <id>")
	fmt.Fprintln(w, "  deskshell icons reset")
	fmt.Fprintln(w, "  deskshell icons select [--add] <x,y> <x,y>")
}

func printIcons(data *ipc.IconsData) {
	selected := make(map[string]bool, len(data.Selected))
	for _, id := range data.Selected {
		selected[id] = true
	}
	for _, icon := range data.Icons {
		marker := " "
		if selected[icon.ID] {
			marker = "*"
		}
		fmt.Printf("%s %-20s %-16s %-14s %5d,%d\n", marker, icon.ID, icon.Name, icon.Action, icon.Position.X, icon.Position.Y)
	}
}

func runIcons(args []string) int {
	if len(args) == 0 {
		printIconsUsage(os.Stderr)
		return 2
	}
	if isHelpArg(args) {
		printIconsUsage(os.Stdout)
		return 0
	}

	client := ipc.NewClient()
	sub, rest := args[0], args[1:]

	switch sub {
	case "list":
		fs := subcommand("list", "icons list [--json]")
		jsonOut := fs.Bool("json", false, "Output icons as JSON")
		if code, ok := parseArgs(fs, rest, 0); !ok {
			return code
		}
		data, err := client.ListIcons()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		if *jsonOut {
			return printJSON(data)
		}
		printIcons(data)
		return 0

	case "add":
		fs := subcommand("add", "icons add <folder|text>")
		if code, ok := parseArgs(fs, rest, 1); !ok {
			return code
		}
		icon, err := client.AddIcon(fs.Arg(0))
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Printf("%s %q at %d,%d\n", icon.ID, icon.Name, icon.Position.X, icon.Position.Y)
		return 0

	case "move":
		fs := subcommand("move", "icons move [--select id,id] <id> <x> <y>")
		sel := fs.String("select", "", "Comma-separated selection that moves together")
		if code, ok := parseArgs(fs, rest, 3); !ok {
			return code
		}
		nums, err := parseInts(fs.Arg(1), fs.Arg(2))
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
		var selection []string
		if *sel != "" {
			selection = strings.Split(*sel, ",")
		}
		data, err := client.MoveIcons(ipc.MoveIconsPayload{IconID: fs.Arg(0), Select: selection, X: nums[0], Y: nums[1]})
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		printIcons(data)
		return 0

	case "rename":
		fs := subcommand("rename", "icons rename <id> <name>")
		if code, ok := parseArgs(fs, rest, 2); !ok {
			return code
		}
		icon, err := client.RenameIcon(fs.Arg(0), fs.Arg(1))
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Printf("%s %q\n", icon.ID, icon.Name)
		return 0

	case "remove":
		fs := subcommand("remove", "icons remove <id>")
		if code, ok := parseArgs(fs, rest, 1); !ok {
			return code
		}
		if err := client.RemoveIcon(fs.Arg(0)); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0

	case "reset":
		fs := subcommand("reset", "icons reset")
		if code, ok := parseArgs(fs, rest, 0); !ok {
			return code
		}
		data, err := client.ResetIcons()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		printIcons(data)
		return 0

	case "select":
		fs := subcommand("select", "icons select [--add] <x,y> <x,y>")
		additive := fs.Bool("add", false, "Add to the current selection")
		if code, ok := parseArgs(fs, rest, 2); !ok {
			return code
		}
		from, err := parsePoint(fs.Arg(0))
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
		to, err := parsePoint(fs.Arg(1))
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
		data, err := client.SelectBox(ipc.SelectBoxPayload{From: from, To: to, Additive: *additive})
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println(strings.Join(data.Selected, "\n"))
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown icons command: %s\n\n", sub)
		printIconsUsage(os.Stderr)
		return 2
	}
}

func printAppUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  deskshell app edit <window-id> <content|->")
	fmt.Fprintln(w, "  deskshell app save [--close] <window-id>")
	fmt.Fprintln(w, "  deskshell app discard <window-id>")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Content '-' is read from stdin.")
}

func printNotepad(data *ipc.AppData) {
	fmt.Printf("window:  %s\n", data.WindowID)
	fmt.Printf("name:    %s\n", data.Name)
	fmt.Printf("dirty:   %v\n", data.Dirty)
	fmt.Printf("closed:  %v\n", data.Closed)
}

func runApp(args []string) int {
	if len(args) == 0 {
		printAppUsage(os.Stderr)
		return 2
	}
	if isHelpArg(args) {
		printAppUsage(os.Stdout)
		return 0
	}

	client := ipc.NewClient()
	sub, rest := args[0], args[1:]

	switch sub {
	case "edit":
		fs := subcommand("edit", "app edit <window-id> <content|->")
		if code, ok := parseArgs(fs, rest, 2); !ok {
			return code
		}
		content := fs.Arg(1)
		if content == "-" {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return 1
			}
			content = string(data)
		}
		data, err := client.AppEdit(fs.Arg(0), content)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		printNotepad(data)
		return 0

	case "save":
		fs := subcommand("save", "app save [--close] <window-id>")
		closeAfter := fs.Bool("close", false, "Close the window after saving")
		if code, ok := parseArgs(fs, rest, 1); !ok {
			return code
		}
		data, err := client.AppSave(fs.Arg(0), *closeAfter)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		printNotepad(data)
		return 0

	case "discard":
		fs := subcommand("discard", "app discard <window-id>")
		if code, ok := parseArgs(fs, rest, 1); !ok {
			return code
		}
		data, err := client.AppDiscard(fs.Arg(0))
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		printNotepad(data)
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown app command: %s\n\n", sub)
		printAppUsage(os.Stderr)
		return 2
	}
}

func printSettings(s *storage.Settings) {
	fmt.Printf("wallpaper:         %s\n", s.Wallpaper)
	fmt.Printf("theme:             %s\n", s.Theme)
	fmt.Printf("accent_color:      %s\n", s.AccentColor)
	fmt.Printf("taskbar_position:  %s\n", s.TaskbarPosition)
	fmt.Printf("taskbar_alignment: %s\n", s.TaskbarAlignment)
}

func runSettings(args []string) int {
	if len(args) == 0 || isHelpArg(args) {
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  deskshell settings get [--json]")
		fmt.Fprintln(os.Stderr, "  deskshell settings set [--wallpaper W] [--theme T] [--accent C] [--taskbar-position P] [--taskbar-alignment A]")
		if len(args) == 0 {
			return 2
		}
		return 0
	}

	client := ipc.NewClient()
	switch args[0] {
	case "get":
		fs := subcommand("get", "settings get [--json]")
		jsonOut := fs.Bool("json", false, "Output settings as JSON")
		if code, ok := parseArgs(fs, args[1:], 0); !ok {
			return code
		}
		s, err := client.GetSettings()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		if *jsonOut {
			return printJSON(s)
		}
		printSettings(s)
		return 0

	case "set":
		fs := subcommand("set", "settings set [flags]")
		var patch storage.Settings
		fs.StringVar(&patch.Wallpaper, "wallpaper", "", "Wallpaper: "+strings.Join(storage.Wallpapers, ", "))
		fs.StringVar(&patch.Theme, "theme", "", "Theme: "+strings.Join(storage.Themes, ", "))
		fs.StringVar(&patch.AccentColor, "accent", "", "Accent color name")
		fs.StringVar(&patch.TaskbarPosition, "taskbar-position", "", "Taskbar position: "+strings.Join(storage.TaskbarPositions, ", "))
		fs.StringVar(&patch.TaskbarAlignment, "taskbar-alignment", "", "Taskbar alignment: "+strings.Join(storage.TaskbarAlignments, ", "))
		if code, ok := parseArgs(fs, args[1:], 0); !ok {
			return code
		}
		if patch == (storage.Settings{}) {
			fmt.Fprintln(os.Stderr, "settings set needs at least one flag")
			fs.Usage()
			return 2
		}
		s, err := client.SetSettings(patch)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		printSettings(s)
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown settings command: %s\n", args[0])
		return 2
	}
}
