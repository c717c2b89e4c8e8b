package task

import "sort"

// Renumber returns a copy of the collection sorted chronologically by
// fecha+hora (stable, so records sharing a datetime keep their relative
// order) with consecutivo reassigned to the dense range 1..N. The input
// is not mutated. It runs at startup and on bulk import; ordinary
// creates use NextConsecutivo so existing numbers are never disturbed.
func Renumber(tasks []Task) []Task {
	out := CloneAll(tasks)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Fecha+"T"+out[i].Hora < out[j].Fecha+"T"+out[j].Hora
	})
	for i := range out {
		out[i].Consecutivo = i + 1
	}
	return out
}

// NextConsecutivo computes max(consecutivo)+1 over the collection,
// treating an empty collection as 0. Non-positive stored values are
// ignored so a corrupted entry cannot poison the sequence.
func NextConsecutivo(tasks []Task) int {
	max := 0
	for i := range tasks {
		if c := tasks[i].Consecutivo; c > max {
			max = c
		}
	}
	return max + 1
}
