package coverage

import "context"

// stubRunner replays canned responses in order and records every invocation.
type stubRunner struct {
	calls     [][]string
	responses []stubResponse
}

type stubResponse struct {
	stdout []byte
	stderr []byte
	err    error
}

func (r *stubRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	r.calls = append(r.calls, append([]string{name}, args...))

	if len(r.responses) == 0 {
		return nil, nil, nil
	}

	resp := r.responses[0]
	r.responses = r.responses[1:]

	return resp.stdout, resp.stderr, resp.err
}
