package modules

import (
	"context"
	"os/exec"
	"time"

	"github.com/mattn/go-shellwords"
	"github.com/pkg/errors"

	"github.com/microrpc/hostlink/internal/engine"
	"github.com/microrpc/hostlink/internal/prot"
)

// maxExecOutput bounds the process output echoed back to the peer so a noisy
// command cannot exceed the link's maximum message size.
const maxExecOutput = prot.MaxMessageSize / 2

// Exec runs host processes on behalf of the peer. It is optional and only
// registered when the daemon is started with the exec module enabled.
type Exec struct {
}

var _ engine.Module = &Exec{}

// Name returns the module name.
func (m *Exec) Name() string {
	return "exec"
}

// Register installs the exec handlers on mux.
func (m *Exec) Register(mux *engine.Mux) error {
	mux.HandleFunc(prot.ExecRunV1, m.run)
	return nil
}

func (m *Exec) run(r *engine.Request) (engine.RequestResponse, error) {
	var request prot.ExecRunRequest
	if err := unmarshalRequest(r, &request); err != nil {
		return nil, err
	}

	args, err := shellwords.Parse(request.CommandLine)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to split command line \"%s\"", request.CommandLine)
	}
	if len(args) == 0 {
		return nil, errors.New("empty command line")
	}

	ctx := context.Background()
	if request.TimeoutNS > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(request.TimeoutNS))
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	out, err := cmd.CombinedOutput()
	if len(out) > maxExecOutput {
		out = out[:maxExecOutput]
	}
	exitCode := 0
	if err != nil {
		eerr := &exec.ExitError{}
		if !errors.As(err, &eerr) {
			return nil, errors.Wrapf(err, "failed to run \"%s\"", request.CommandLine)
		}
		exitCode = eerr.ExitCode()
	}

	return &prot.ExecRunResponse{
		MessageResponseBase: &prot.MessageResponseBase{},
		ExitCode:            exitCode,
		Output:              string(out),
	}, nil
}
