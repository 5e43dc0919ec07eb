package ports

type SimMetrics interface {
	RecordCreate()
	RecordReset()
	RecordStep(agents, terminals int)
	RecordFailure()
}
