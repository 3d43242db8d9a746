package timezone

import "time"

var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("US/Eastern")
	if err != nil {
		panic(err)
	}
}

// gradescope renders submission timestamps in the submitter's offset; every
// export we produce pins them to US/Eastern so date arithmetic like
// days-late stays consistent no matter where the process runs.
func Now() time.Time {
	return time.Now().In(Location)
}
