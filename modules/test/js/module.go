package js

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/FishingHacks/redstart/internal/ctxlog"
	"github.com/FishingHacks/redstart/internal/registry"
	"github.com/FishingHacks/redstart/internal/toolchain"
)

//go:embed manifest.hcl
var manifest []byte

// runner loads the test file, calls its function with the working directory
// and prints the outcome as a JSON line.
const runner = `
const [file, dir] = process.argv.slice(1);
const report = (r) => console.log(JSON.stringify(r));
import(require("node:url").pathToFileURL(file).href)
  .then(async (mod) => {
    let test = mod;
    if (typeof test?.default === "function") test = test.default;
    if (typeof test !== "function") return report({ status: "missing" });
    const r = await test(dir);
    if (r === true || r === 0) return report({ status: "passed" });
    if (r === false) return report({ status: "failed" });
    if (typeof r === "number") return report({ status: "failed", failed: r });
    report({ status: "invalid" });
  })
  .catch((e) => report({ status: "error", error: String(e && e.stack || e) }));
`

// Result is the outcome reported by the test runner.
type Result struct {
	Status string `json:"status"`
	Failed int    `json:"failed,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Module implements the registry.Module interface for this package.
type Module struct {
	// Run starts node. Nil means a child process.
	Run toolchain.RunFunc
}

// Input defines the options of a @test/js step.
type Input struct {
	TestFile string `cty:"testfile"`
}

// Validate accepts only .js and .mjs files.
func (m *Module) Validate(ctx context.Context, call *registry.Call) error {
	input := call.Input.(*Input)
	if !strings.HasSuffix(input.TestFile, ".js") && !strings.HasSuffix(input.TestFile, ".mjs") {
		return fmt.Errorf("testfile %q must be a .js or .mjs file", input.TestFile)
	}
	return nil
}

// Initiate runs the test function and fails unless it reports success.
func (m *Module) Initiate(ctx context.Context, call *registry.Call) error {
	input := call.Input.(*Input)
	logger := ctxlog.FromContext(ctx)

	file := filepath.Join(call.Cwd, input.TestFile)
	cmd := toolchain.Command{Name: "node", Args: []string{"-e", runner, file, call.Cwd}, Dir: call.Cwd}

	end := call.Phase("running tests")
	out, err := toolchain.Or(m.Run)(ctx, cmd)
	end()
	if err != nil {
		return fmt.Errorf("error during the execution of the tests: %w: %s", err, out)
	}

	res, printed, err := parseResult(out)
	if err != nil {
		return err
	}
	if printed != "" && call.Out != nil {
		fmt.Fprintln(call.Out, printed)
	}
	switch res.Status {
	case "passed":
		logger.Info("Tests completed.", "file", input.TestFile)
		return nil
	case "failed":
		if res.Failed > 0 {
			return fmt.Errorf("tests failed: %d failed", res.Failed)
		}
		return errors.New("tests failed")
	case "missing":
		return fmt.Errorf("%s doesn't export a test function", input.TestFile)
	case "invalid":
		return errors.New("the test function didn't return a boolean or number")
	default:
		return fmt.Errorf("error during the execution of the tests: %s", res.Error)
	}
}

// parseResult reads the runner's report from the last line of out and
// returns the lines before it, which the tests printed themselves.
func parseResult(out string) (Result, string, error) {
	out = strings.TrimSpace(out)
	printed, last := "", out
	if i := strings.LastIndex(out, "\n"); i >= 0 {
		printed, last = out[:i], out[i+1:]
	}
	var res Result
	if err := json.Unmarshal([]byte(last), &res); err != nil || res.Status == "" {
		return Result{}, "", fmt.Errorf("unexpected test runner output: %q", out)
	}
	return res, printed, nil
}

// Register registers the module with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.Register(&registry.Registration{
		Manifest: manifest,
		NewInput: func() any { return new(Input) },
		Module:   m,
	})
}
