// assistant is a line-mode harness for the client-side state packages:
// it wires the toast queue, shortcut registry, settings bus, and auth
// store together the way the UI shell does, and drives them from stdin.
//
// Run: go run ./cmd/assistant
//
//	> key ctrl+k
//	> theme dark
//	> auth
//	> toasts
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dentalking/geulpi-calendar/internal/client/authstate"
	"github.com/dentalking/geulpi-calendar/internal/client/settings"
	"github.com/dentalking/geulpi-calendar/internal/client/shortcut"
	"github.com/dentalking/geulpi-calendar/internal/client/toast"
)

var knownLocales = []string{"en", "ko", "ja"}

// printApplier renders settings changes to stdout, standing in for the
// UI shell.
type printApplier struct{}

func (printApplier) ApplyTheme(theme string) error {
	fmt.Printf("theme -> %s\n", theme)
	return nil
}

func (printApplier) ApplyFontSize(px int) error {
	if px < 8 || px > 40 {
		return fmt.Errorf("font size %d out of range", px)
	}
	fmt.Printf("font size -> %dpx\n", px)
	return nil
}

func (printApplier) ApplyLocale(locale string) error {
	fmt.Printf("locale -> %s (path %s)\n", locale, settings.LocalePath("/en/settings", locale, knownLocales))
	return nil
}

func main() {
	baseURL := os.Getenv("API_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	queue := toast.NewQueue()
	ctx := toast.NewContext(context.Background(), queue)

	bus := settings.NewBus()
	bus.SetApplier(printApplier{})

	store := authstate.NewStore(baseURL)

	registry := shortcut.NewRegistry()
	registry.Bind(shortcut.Binding{
		Key: "k", Ctrl: true, Description: "command palette",
		Handler: func(shortcut.KeyEvent) { notify(ctx, toast.KindInfo, "command palette opened") },
	})
	registry.Bind(shortcut.Binding{
		Key: "n", Ctrl: true, Description: "new event",
		Handler: func(shortcut.KeyEvent) { notify(ctx, toast.KindInfo, "new event form") },
	})
	registry.Bind(shortcut.Binding{
		Key: "?", Shift: true, Description: "help",
		Handler: func(shortcut.KeyEvent) {
			for _, b := range registry.Bindings() {
				fmt.Printf("  %-12s %s\n", chordString(b), b.Description)
			}
		},
	})

	fmt.Println("assistant ready (commands: key, toasts, dismiss, theme, font, locale, auth, quit)")
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		cmd, arg, _ := strings.Cut(line, " ")

		switch cmd {
		case "quit", "exit":
			return

		case "key":
			ev, err := parseChord(arg)
			if err != nil {
				fmt.Println("error:", err)
				continue
			}
			if n := registry.Dispatch(ev); n == 0 {
				fmt.Println("no binding for", arg)
			}

		case "toasts":
			for _, t := range queue.List() {
				fmt.Printf("  [%s] %s  %s\n", t.Kind, t.ID, t.Title)
			}

		case "dismiss":
			queue.Remove(arg)

		case "theme":
			report(bus.ApplyTheme(arg))

		case "font":
			px, err := strconv.Atoi(arg)
			if err != nil {
				fmt.Println("error: font wants a number")
				continue
			}
			report(bus.ApplyFontSize(px))

		case "locale":
			report(bus.ApplyLocale(arg))

		case "auth":
			state := store.CheckAuth(context.Background())
			switch {
			case state.LastError != nil:
				fmt.Printf("check failed: %s (%s)\n", state.LastError.Code, state.LastError.Details)
			case state.Authenticated:
				fmt.Printf("signed in as %s\n", state.User.Email)
			default:
				fmt.Println("signed out")
			}

		default:
			fmt.Println("unknown command:", cmd)
		}
	}
}

func notify(ctx context.Context, kind toast.Kind, title string) {
	q, err := toast.FromContext(ctx)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	q.Push(kind, title, "", 0)
	fmt.Println(title)
}

func report(err error) {
	if err != nil {
		fmt.Println("error:", err)
	}
}

// parseChord turns "ctrl+shift+p" into a KeyEvent. The last segment is
// the key; everything before it is a modifier.
func parseChord(s string) (shortcut.KeyEvent, error) {
	if s == "" {
		return shortcut.KeyEvent{}, fmt.Errorf("empty chord")
	}

	parts := strings.Split(strings.ToLower(s), "+")
	ev := shortcut.KeyEvent{Key: parts[len(parts)-1]}
	if ev.Key == "" {
		return shortcut.KeyEvent{}, fmt.Errorf("chord %q has no key", s)
	}

	for _, mod := range parts[:len(parts)-1] {
		switch mod {
		case "ctrl":
			ev.Ctrl = true
		case "meta", "cmd":
			ev.Meta = true
		case "shift":
			ev.Shift = true
		case "alt":
			ev.Alt = true
		default:
			return shortcut.KeyEvent{}, fmt.Errorf("unknown modifier %q", mod)
		}
	}
	return ev, nil
}

func chordString(b shortcut.Binding) string {
	var parts []string
	if b.Ctrl {
		parts = append(parts, "ctrl")
	}
	if b.Meta {
		parts = append(parts, "meta")
	}
	if b.Shift {
		parts = append(parts, "shift")
	}
	if b.Alt {
		parts = append(parts, "alt")
	}
	parts = append(parts, b.Key)
	return strings.Join(parts, "+")
}
