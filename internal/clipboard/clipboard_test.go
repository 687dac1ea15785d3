package clipboard

import (
	"errors"
	"log/slog"
	"os/exec"
	"strings"
	"testing"
)

type call struct {
	path  string
	args  string
	stdin string
}

func fake(available map[string]bool, out string, fail error) (*Provider, *[]call) {
	var calls []call
	p := &Provider{
		logger: slog.Default(),
		lookPath: func(name string) (string, error) {
			if available[name] {
				return "/usr/bin/" + name, nil
			}
			return "", exec.ErrNotFound
		},
		exec: func(path string, args []string, stdin string) (string, error) {
			calls = append(calls, call{path: path, args: strings.Join(args, " "), stdin: stdin})
			return out, fail
		},
	}
	return p, &calls
}

func TestSetTextNativeFirst(t *testing.T) {
	p, calls := fake(map[string]bool{"xclip": true}, "", nil)
	var got string
	p.writeNative = func(s string) error { got = s; return nil }

	if err := p.SetText("hello"); err != nil {
		t.Fatal(err)
	}
	if got != "hello" || len(*calls) != 0 {
		t.Errorf("native = %q, fallback calls = %v", got, *calls)
	}
}

func TestSetTextFallbackOrder(t *testing.T) {
	p, calls := fake(map[string]bool{"xsel": true, "pbcopy": true, "xclip": true}, "", nil)
	p.writeNative = func(string) error { return errors.New("no X11") }

	if err := p.SetText("hello"); err != nil {
		t.Fatal(err)
	}
	if len(*calls) != 1 {
		t.Fatalf("calls = %v", *calls)
	}
	c := (*calls)[0]
	if c.path != "/usr/bin/xclip" || c.args != "-selection clipboard" || c.stdin != "hello" {
		t.Errorf("call = %+v", c)
	}
}

func TestSetTextToolFailure(t *testing.T) {
	p, _ := fake(map[string]bool{"wl-copy": true}, "", errors.New("exit status 1"))
	if err := p.SetText("x"); err == nil || !strings.Contains(err.Error(), "wl-copy") {
		t.Errorf("err = %v", err)
	}
}

func TestSetTextNothingAvailable(t *testing.T) {
	p, _ := fake(nil, "", nil)
	if err := p.SetText("x"); !errors.Is(err, ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", err)
	}
}

func TestReadAllFallback(t *testing.T) {
	p, calls := fake(map[string]bool{"pbpaste": true}, "pasted", nil)
	p.readNative = func() (string, error) { return "", errors.New("unsupported") }

	got, err := p.ReadAll()
	if err != nil || got != "pasted" {
		t.Fatalf("ReadAll = %q, %v", got, err)
	}
	if (*calls)[0].path != "/usr/bin/pbpaste" {
		t.Errorf("calls = %v", *calls)
	}
}

func TestReadAllNothingAvailable(t *testing.T) {
	p, _ := fake(nil, "", nil)
	if _, err := p.ReadAll(); !errors.Is(err, ErrUnavailable) {
		t.Errorf("err = %v", err)
	}
}
