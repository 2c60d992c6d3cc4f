package worker

import "context"

// mockResult carries the job's value and error
type mockResult struct {
	value int
	err   error
}

func (r *mockResult) GetError() error {
	return r.err
}

// mockJob returns its value as the result
type mockJob struct {
	value int
}

func (j *mockJob) Execute(ctx context.Context) Result {
	return &mockResult{value: j.value}
}
