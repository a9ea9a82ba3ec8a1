package modem

import (
	"testing"
	"time"
)

func TestTimingSchedulerDequeuesInOrderWhenDue(t *testing.T) {
	s := NewTimingScheduler(1000) // 1 sample = 1ms
	s.Enqueue(Command{Kind: CmdSetVolume, Volume: 1}, 10*time.Millisecond)
	s.Enqueue(Command{Kind: CmdSetVolume, Volume: 2}, 5*time.Millisecond)

	if _, ok := s.TryDequeue(); !ok {
		t.Fatal("first command should be due immediately (queued at t=0)")
	}
	if _, ok := s.TryDequeue(); ok {
		t.Fatal("second command should not be due yet")
	}

	for i := 0; i < 10; i++ {
		s.AdvanceSample()
	}

	cmd, ok := s.TryDequeue()
	if !ok {
		t.Fatal("second command should be due after 10ms")
	}
	if cmd.Volume != 2 {
		t.Errorf("dequeued command volume = %v, want 2", cmd.Volume)
	}
}

func TestTimingSchedulerDoneTracksQueuedDuration(t *testing.T) {
	s := NewTimingScheduler(1000)
	if !s.Done() {
		t.Error("an empty scheduler should report Done()")
	}

	s.Enqueue(Command{Kind: CmdClearTones}, 5*time.Millisecond)
	if s.Done() {
		t.Error("scheduler with pending duration should not be Done()")
	}

	for i := 0; i < 5; i++ {
		s.AdvanceSample()
	}
	if !s.Done() {
		t.Error("scheduler should be Done() once current_duration reaches queued_duration")
	}
}
