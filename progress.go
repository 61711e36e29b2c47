package primechain

type (
	// ProgressFollower is notified while a prime chain grows: StepStart once with the chain
	// length, Tick per prime found, StepDone at the end.
	ProgressFollower interface {
		StepStart(desc string, intermediates int)
		Tick()
		StepDone()
	}

	EmptyFollower struct{}
)

func (*EmptyFollower) StepStart(_ string, _ int) {}
func (*EmptyFollower) Tick()                     {}
func (*EmptyFollower) StepDone()                 {}
