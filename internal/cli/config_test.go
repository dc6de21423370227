package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/kzsfluxus/text-to-speech/internal/lang"
)

// Notes:
// - Config subcommands hit the real config package, so tests redirect
//   the config directory with XDG_CONFIG_HOME and cannot run in parallel

// runConfigCmd executes "config <args...>" and captures stdout.
func runConfigCmd(t *testing.T, env *Env, args ...string) (string, error) {
	t.Helper()
	cmd := ConfigCmd(env)
	var out bytes.Buffer
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func configTestEnv(t *testing.T) *Env {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	env, _, _ := testEnv()
	return env
}

func TestConfigSetAndGet(t *testing.T) {
	env := configTestEnv(t)

	if _, err := runConfigCmd(t, env, "set", "voice", "nova"); err != nil {
		t.Fatalf("config set error = %v", err)
	}

	out, err := runConfigCmd(t, env, "get", "voice")
	if err != nil {
		t.Fatalf("config get error = %v", err)
	}
	if strings.TrimSpace(out) != "nova" {
		t.Errorf("config get = %q, want nova", out)
	}
}

func TestConfigSet_UnknownKey(t *testing.T) {
	env := configTestEnv(t)

	if _, err := runConfigCmd(t, env, "set", "bogus", "value"); err == nil {
		t.Error("config set expected error for unknown key")
	}
}

func TestConfigSet_InvalidLanguage(t *testing.T) {
	env := configTestEnv(t)

	_, err := runConfigCmd(t, env, "set", "language", "xx")
	if !errors.Is(err, lang.ErrInvalid) {
		t.Errorf("error = %v, want lang.ErrInvalid", err)
	}
}

func TestConfigGet_EnvFallback(t *testing.T) {
	env := configTestEnv(t)
	env.Getenv = func(key string) string {
		if key == "TTS_MODEL" {
			return "tts-from-env"
		}
		return ""
	}

	out, err := runConfigCmd(t, env, "get", "model")
	if err != nil {
		t.Fatalf("config get error = %v", err)
	}
	if strings.TrimSpace(out) != "tts-from-env" {
		t.Errorf("config get = %q, want the env value", out)
	}
}

func TestConfigList(t *testing.T) {
	env := configTestEnv(t)

	if _, err := runConfigCmd(t, env, "set", "voice", "shimmer"); err != nil {
		t.Fatal(err)
	}
	if _, err := runConfigCmd(t, env, "set", "language", "hu"); err != nil {
		t.Fatal(err)
	}

	out, err := runConfigCmd(t, env, "list")
	if err != nil {
		t.Fatalf("config list error = %v", err)
	}
	if !strings.Contains(out, "voice=shimmer") {
		t.Errorf("list output %q missing voice", out)
	}
	if !strings.Contains(out, "language=hu") {
		t.Errorf("list output %q missing language", out)
	}
}

func TestConfigList_Empty(t *testing.T) {
	env := configTestEnv(t)

	out, err := runConfigCmd(t, env, "list")
	if err != nil {
		t.Fatalf("config list error = %v", err)
	}
	if !strings.Contains(out, "No configuration set.") {
		t.Errorf("list output %q missing empty notice", out)
	}
}

func TestConfigList_ShowsEnvValues(t *testing.T) {
	env := configTestEnv(t)
	env.Getenv = func(key string) string {
		if key == "TTS_VOICE" {
			return "echo"
		}
		return ""
	}

	out, err := runConfigCmd(t, env, "list")
	if err != nil {
		t.Fatalf("config list error = %v", err)
	}
	if !strings.Contains(out, "echo (from env)") {
		t.Errorf("list output %q missing env-sourced value", out)
	}
}
