package movies

// Dataset is an immutable, ordered collection of records. Filtering returns
// a new Dataset; the receiver is never modified, so a loaded Dataset can be
// shared by concurrent readers without locking.
type Dataset struct {
	name    string
	records []Record
	report  LoadReport
}

// LoadReport summarizes what the loader saw while coercing the source.
type LoadReport struct {
	Source string
	Rows   int
	// MissingOptional lists optional columns absent from the source header.
	MissingOptional []string
	// CoercionFailures counts non-empty cells that degraded to null, by column.
	CoercionFailures map[string]int
}

// NewDataset builds a Dataset from records. The slice is copied.
func NewDataset(name string, records []Record) *Dataset {
	cp := make([]Record, len(records))
	copy(cp, records)
	return &Dataset{name: name, records: cp}
}

// Name returns the source name the dataset was loaded from.
func (d *Dataset) Name() string {
	if d == nil {
		return ""
	}
	return d.name
}

// Len returns the number of records; a nil Dataset is empty.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.records)
}

// Empty reports whether the dataset has no records.
func (d *Dataset) Empty() bool { return d.Len() == 0 }

// At returns a pointer to the i-th record. Callers must treat it as read-only.
func (d *Dataset) At(i int) *Record { return &d.records[i] }

// Records returns a copy of the record slice.
func (d *Dataset) Records() []Record {
	if d == nil {
		return nil
	}
	cp := make([]Record, len(d.records))
	copy(cp, d.records)
	return cp
}

// Report returns the load report of the canonical dataset. Views created by
// Select carry their parent's report.
func (d *Dataset) Report() LoadReport {
	if d == nil {
		return LoadReport{}
	}
	return d.report
}

// Select returns a new Dataset holding the records for which keep is true,
// in original order.
func (d *Dataset) Select(keep func(*Record) bool) *Dataset {
	out := &Dataset{}
	if d == nil {
		return out
	}
	out.name = d.name
	out.report = d.report
	for i := range d.records {
		if keep(&d.records[i]) {
			out.records = append(out.records, d.records[i])
		}
	}
	return out
}

// Each calls fn for every record in order.
func (d *Dataset) Each(fn func(i int, r *Record)) {
	if d == nil {
		return
	}
	for i := range d.records {
		fn(i, &d.records[i])
	}
}
