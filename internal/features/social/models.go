package social

// Record is one member's social state within a group. Favor holds this
// member's favorability toward others, so gifts raise the receiver's
// record and dates touch both.
type Record struct {
	// Relations maps kind to partner. One slot per kind.
	Relations map[RelationKind]int64 `yaml:"relations,omitempty"`
	// Favor maps target user to this member's favorability toward them.
	Favor map[int64]int `yaml:"favorability,omitempty"`

	// ThanksGiven maps target user to the date of the last thank-you
	// bump sent their way.
	ThanksGiven map[int64]string `yaml:"thanks_given,omitempty"`

	DailyDates   int    `yaml:"daily_dates,omitempty"`
	LastDateDate string `yaml:"last_date_date,omitempty"`
}

func (r *Record) clone() Record {
	out := *r
	if r.Relations != nil {
		out.Relations = make(map[RelationKind]int64, len(r.Relations))
		for k, v := range r.Relations {
			out.Relations[k] = v
		}
	}
	if r.Favor != nil {
		out.Favor = make(map[int64]int, len(r.Favor))
		for k, v := range r.Favor {
			out.Favor[k] = v
		}
	}
	if r.ThanksGiven != nil {
		out.ThanksGiven = make(map[int64]string, len(r.ThanksGiven))
		for k, v := range r.ThanksGiven {
			out.ThanksGiven[k] = v
		}
	}
	return out
}

// relationWith returns the kind binding this record to target, if any.
func (r *Record) relationWith(target int64) (RelationKind, bool) {
	for _, k := range RelationKinds {
		if r.Relations[k] == target {
			return k, true
		}
	}
	return "", false
}

// Document is the on-disk shape of social.yaml.
type Document struct {
	Groups map[int64]map[int64]*Record `yaml:"groups"`
}
