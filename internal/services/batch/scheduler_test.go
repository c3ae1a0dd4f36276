package batch

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/ternarybob/arbor"
)

func TestSchedulerRejectsEmptySchedule(t *testing.T) {
	scheduler := NewScheduler(nil, arbor.NewLogger())

	err := scheduler.Start(context.Background(), "")

	assert.Error(t, err)
}

func TestSchedulerRejectsInvalidSchedule(t *testing.T) {
	scheduler := NewScheduler(nil, arbor.NewLogger())

	err := scheduler.Start(context.Background(), "every five minutes")

	assert.Error(t, err)
}

func TestSchedulerStartStop(t *testing.T) {
	gen := &routingGenerator{}
	source := &fakeSource{articles: sampleArticles(3)}
	processor, _ := newTestProcessor(t, gen, source, []string{"Tesla"})
	scheduler := NewScheduler(processor, arbor.NewLogger())

	err := scheduler.Start(context.Background(), "@hourly")
	assert.NoError(t, err)

	scheduler.Stop()
}
