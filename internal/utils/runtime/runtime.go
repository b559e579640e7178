package runtime

// Must panics if err is not nil. Only for wiring that cannot sensibly
// continue (e.g. binding config flags at startup).
func Must(err error) {
	if err != nil {
		panic(err)
	}
}
