package settings

import (
	"errors"
	"testing"
)

type recordingApplier struct {
	themes    []string
	fontSizes []int
	locales   []string
	err       error
}

func (a *recordingApplier) ApplyTheme(theme string) error {
	a.themes = append(a.themes, theme)
	return a.err
}

func (a *recordingApplier) ApplyFontSize(px int) error {
	a.fontSizes = append(a.fontSizes, px)
	return a.err
}

func (a *recordingApplier) ApplyLocale(locale string) error {
	a.locales = append(a.locales, locale)
	return a.err
}

func TestApply_NoApplier_ReturnsError(t *testing.T) {
	b := NewBus()
	if err := b.ApplyTheme("dark"); !errors.Is(err, ErrNoApplier) {
		t.Errorf("err = %v, want ErrNoApplier", err)
	}
}

func TestApply_ForwardsToApplier(t *testing.T) {
	b := NewBus()
	a := &recordingApplier{}
	b.SetApplier(a)

	if err := b.ApplyTheme("dark"); err != nil {
		t.Fatalf("ApplyTheme: %v", err)
	}
	if err := b.ApplyFontSize(16); err != nil {
		t.Fatalf("ApplyFontSize: %v", err)
	}
	if err := b.ApplyLocale("ko"); err != nil {
		t.Fatalf("ApplyLocale: %v", err)
	}

	if len(a.themes) != 1 || a.themes[0] != "dark" {
		t.Errorf("themes = %v", a.themes)
	}
	if len(a.fontSizes) != 1 || a.fontSizes[0] != 16 {
		t.Errorf("fontSizes = %v", a.fontSizes)
	}
	if len(a.locales) != 1 || a.locales[0] != "ko" {
		t.Errorf("locales = %v", a.locales)
	}
}

func TestApply_ApplierErrorPropagates(t *testing.T) {
	b := NewBus()
	wantErr := errors.New("shell rejected theme")
	b.SetApplier(&recordingApplier{err: wantErr})

	if err := b.ApplyTheme("dark"); !errors.Is(err, wantErr) {
		t.Errorf("err = %v, want %v", err, wantErr)
	}
}

func TestSubscribe_ReceivesAppliedChanges(t *testing.T) {
	b := NewBus()
	b.SetApplier(&recordingApplier{})
	ch := b.Subscribe()

	if err := b.ApplyLocale("en"); err != nil {
		t.Fatalf("ApplyLocale: %v", err)
	}

	select {
	case change := <-ch:
		if change.Field != "locale" || change.Value != "en" {
			t.Errorf("change = %+v", change)
		}
	default:
		t.Fatal("no change delivered")
	}
}

func TestSubscribe_FailedApplyNotDelivered(t *testing.T) {
	b := NewBus()
	b.SetApplier(&recordingApplier{err: errors.New("nope")})
	ch := b.Subscribe()

	_ = b.ApplyTheme("dark")

	select {
	case change := <-ch:
		t.Errorf("unexpected change %+v after failed apply", change)
	default:
	}
}

func TestUnsubscribe_ClosesChannel(t *testing.T) {
	b := NewBus()
	ch := b.Subscribe()
	b.Unsubscribe(ch)

	if _, open := <-ch; open {
		t.Error("channel still open after Unsubscribe")
	}
}

func TestLocalePath_RewritesLocaleSegment(t *testing.T) {
	known := []string{"en", "ko", "ja"}

	cases := []struct {
		name   string
		path   string
		locale string
		want   string
	}{
		{"replace existing locale", "/en/settings", "ko", "/ko/settings"},
		{"replace locale deeper in the path", "/app/en/settings", "ko", "/app/ko/settings"},
		{"only the first locale segment changes", "/en/docs/ja", "ko", "/ko/docs/ja"},
		{"prepend when missing", "/settings", "ko", "/ko/settings"},
		{"root path", "/", "ja", "/ja"},
		{"bare locale", "/en", "ko", "/ko"},
		{"unknown segment is kept", "/events/today", "en", "/en/events/today"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := LocalePath(tc.path, tc.locale, known); got != tc.want {
				t.Errorf("LocalePath(%q, %q) = %q, want %q", tc.path, tc.locale, got, tc.want)
			}
		})
	}
}
