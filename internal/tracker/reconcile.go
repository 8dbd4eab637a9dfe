package tracker

// Delta lists what [Reconcile] changed.
type Delta struct {
	Added   []string
	Removed []Record
}

// Empty reports whether reconciliation changed nothing.
func (d Delta) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0
}

// Reconcile brings t in line with the live directory listing and returns the
// new table. t is not modified.
//
// Reserved names are dropped from live and any record naming one is removed.
// Every live name that is neither an original nor a current name gets a new
// record tracking itself. Records whose file vanished are removed: in
// unchanged mode a record is matched by its original name, in prefixed mode by
// its current name.
func Reconcile(t Table, live []string, reserved Reserved) (Table, Delta) {
	live = reserved.Filter(live)

	liveSet := make(map[string]bool, len(live))
	for _, name := range live {
		liveSet[name] = true
	}

	out := Table{Mode: t.Mode, Records: make([]Record, 0, len(t.Records)+len(live))}

	var delta Delta

	for _, rec := range t.Records {
		key := rec.Original
		if t.Mode == ModePrefixed {
			key = rec.Current
		}

		if reserved.Contains(rec.Original) || reserved.Contains(rec.Current) || !liveSet[key] {
			delta.Removed = append(delta.Removed, rec)
			continue
		}

		out.Records = append(out.Records, rec)
	}

	// Only surviving records hide a live name; a dropped record's names are
	// free to be tracked again, which keeps a second pass a no-op.
	known := make(map[string]bool, 2*len(out.Records))

	for _, rec := range out.Records {
		known[rec.Original] = true

		if rec.Current != "" {
			known[rec.Current] = true
		}
	}

	for _, name := range live {
		if known[name] {
			continue
		}

		known[name] = true
		out.Records = append(out.Records, Record{Original: name, Current: name})
		delta.Added = append(delta.Added, name)
	}

	return out, delta
}
