package indicators

// record builds a test row with indicator values given as field/value pairs
func record(id string, year, quarter int, values map[string]float64) Record {
	r := Record{
		EntityID:    id,
		DisplayName: "Operator " + id,
		Modality:    "Dental Cooperative",
		SizeClass:   "Small",
		Year:        year,
		Quarter:     quarter,
		Indicators:  map[string]Number{},
	}
	for k, v := range values {
		r.Indicators[k] = Some(v)
	}
	return r
}

func ids(records []Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.EntityID
	}
	return out
}

func sampleTable() []Record {
	a := record("A1", 2024, 1, map[string]float64{FieldLossRatio: 0.7})
	b := record("B2", 2024, 2, map[string]float64{FieldLossRatio: 0.8})
	b.Modality = "Dental Group"
	b.SizeClass = "Medium"
	c := record("C3", 2023, 4, map[string]float64{FieldLossRatio: 0.9})
	c.SizeClass = "Large"
	return []Record{a, b, c}
}
