package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bmexp/bmexp/internal/exporter"
	"github.com/bmexp/bmexp/internal/importer"
	"github.com/bmexp/bmexp/internal/logging"
	"github.com/bmexp/bmexp/internal/model"
	"github.com/bmexp/bmexp/internal/picker"
	"github.com/bmexp/bmexp/internal/prefs"
	"github.com/bmexp/bmexp/internal/search"
	"github.com/bmexp/bmexp/internal/store"
	"github.com/bmexp/bmexp/internal/tui"
	"github.com/bmexp/bmexp/internal/undo"
)

func main() {
	if len(os.Args) >= 2 {
		switch os.Args[1] {
		case "help", "--help", "-h":
			printHelp()
			return
		case "import":
			if len(os.Args) < 3 {
				fmt.Fprintf(os.Stderr, "Usage: bmexp import <file.html>\n")
				os.Exit(1)
			}
			runImport(os.Args[2])
			return
		case "export":
			// Export with optional path
			var outputPath string
			if len(os.Args) >= 3 {
				outputPath = os.Args[2]
			}
			runExport(outputPath)
			return
		default:
			// Treat as search query (join all remaining args)
			query := strings.Join(os.Args[1:], " ")
			runQuickSearch(query)
			return
		}
	}

	// No args - run full TUI
	runTUI()
}

func printHelp() {
	help := `bmexp - dual-pane bookmark explorer

Usage:
  bmexp                 Open interactive explorer
  bmexp <query>         Quick search → select → open
  bmexp import <file>   Import bookmarks from HTML
  bmexp export [path]   Export bookmarks to HTML
  bmexp help            Show this help

Keybindings:
  Navigation:
    j/k         Move down/up
    gg/G        Jump to top/bottom
    l/Enter     Open folder
    h/L         History back/forward
    -/Backspace Parent folder
    Tab         Switch pane
    2           Toggle dual pane

  Mouse:
    drag        Move item (shift: drop before, alt: drop after)

  Editing:
    a/A         Add bookmark/folder
    r           Rename
    d           Delete
    u           Undo
    y/p         Yank / paste item
    Space       Toggle select

  Other:
    s or /      Global fuzzy search
    y           Yank URL
    o           Cycle sort mode
    ?           Show help overlay
    q           Quit

Data Storage:
  ~/.config/bmexp/bookmarks.db
`
	fmt.Print(help)
}

// openStore opens the bookmark database at its default location.
func openStore() *store.SQLiteStore {
	path, err := store.DefaultSQLitePath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error getting data path: %v\n", err)
		os.Exit(1)
	}
	s, err := store.NewSQLiteStore(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening bookmarks: %v\n", err)
		os.Exit(1)
	}
	return s
}

// runTUI runs the full interactive explorer.
func runTUI() {
	s := openStore()
	defer s.Close()

	prefsPath, err := prefs.DefaultPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error getting prefs path: %v\n", err)
		os.Exit(1)
	}
	p, err := prefs.Open(prefsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading preferences: %v\n", err)
		os.Exit(1)
	}

	app := tui.NewApp(tui.AppParams{
		Store:  s,
		Log:    undo.NewLog(s),
		Prefs:  p,
		Logger: logging.NewFromEnv(),
	})
	program := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseAllMotion())
	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running app: %v\n", err)
		os.Exit(1)
	}
}

// runQuickSearch performs a fuzzy search and opens the selected bookmark.
func runQuickSearch(query string) {
	s := openStore()
	defer s.Close()
	ctx := context.Background()

	results, err := search.FuzzySearchBookmarks(ctx, s, query)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error searching bookmarks: %v\n", err)
		os.Exit(1)
	}
	if len(results) == 0 {
		fmt.Printf("No bookmarks found for '%s'\n", query)
		return
	}

	var selected *model.Node

	if len(results) == 1 {
		// Single result - select it directly
		selected = &results[0].Node
		fmt.Printf("Opening: %s\n", selected.Title)
	} else {
		// Multiple results - show picker with folder paths
		p := picker.New(picker.BuildEntries(ctx, s, results), query)
		finalModel, err := tea.NewProgram(p).Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error running picker: %v\n", err)
			os.Exit(1)
		}

		finalPicker := finalModel.(picker.Picker)
		if finalPicker.Cancelled() {
			return
		}
		selected = finalPicker.SelectedNode()
	}

	if selected == nil {
		return
	}
	openURL(selected.URL)
}

// openURL opens a URL in the default browser.
func openURL(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	}
	if cmd != nil {
		_ = cmd.Start()
	}
}

// runImport handles the import subcommand.
func runImport(filePath string) {
	s := openStore()
	defer s.Close()

	file, err := os.Open(filePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening file: %v\n", err)
		os.Exit(1)
	}
	defer file.Close()

	count, err := importer.Import(context.Background(), s, model.OtherID, file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error importing bookmarks: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Imported %d items into Other Bookmarks\n", count)
}

// runExport handles the export subcommand.
func runExport(outputPath string) {
	if outputPath == "" {
		var err error
		outputPath, err = exporter.DefaultExportPath()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting default export path: %v\n", err)
			os.Exit(1)
		}
	}

	s := openStore()
	defer s.Close()

	html, err := exporter.ExportStore(context.Background(), s)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error exporting bookmarks: %v\n", err)
		os.Exit(1)
	}

	if err := os.WriteFile(outputPath, []byte(html), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Exported bookmarks to %s\n", outputPath)
}
