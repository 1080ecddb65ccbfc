package camunda

import (
	"errors"
	"testing"

	"github.com/rustybadge/after-sales-quiz/internal/common/config"
	apperrors "github.com/rustybadge/after-sales-quiz/internal/common/errors"
	"github.com/rustybadge/after-sales-quiz/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/stretchr/testify/assert"
)

func TestMapZeebeError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want apperrors.ErrorCode
	}{
		{"deadline", errors.New("rpc error: code = DeadlineExceeded desc = context deadline exceeded"), apperrors.ErrCodeTimeout},
		{"not found", errors.New("rpc error: code = NotFound desc = job not found"), apperrors.ErrCodeResourceNotFound},
		{"auth", errors.New("rpc error: code = Unauthenticated desc = bad token"), apperrors.ErrCodeAuthentication},
		{"unavailable", errors.New("rpc error: code = Unavailable desc = connection refused"), apperrors.ErrCodeExternalService},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := mapZeebeError(tt.err, "topology")
			assert.True(t, apperrors.HasCode(err, tt.want), "got %v", err)
		})
	}
}

func TestInstrument_CallsHandler(t *testing.T) {
	called := false
	h := Instrument("score-quiz", func(client worker.JobClient, job entities.Job) {
		called = true
		assert.Equal(t, int64(42), job.Key)
	})

	h(nil, entities.Job{ActivatedJob: &pb.ActivatedJob{Key: 42}})
	assert.True(t, called)
}

func TestPool_DisabledWorkerIsNotOpened(t *testing.T) {
	p := NewPool(nil, logger.NewTestLogger(t))

	opened := p.StartWorker("send-plan", config.WorkerConfig{Enabled: false}, func(worker.JobClient, entities.Job) {})
	assert.False(t, opened)
	assert.Empty(t, p.TaskTypes())
	p.Close()
}
