package plan

// Label returns the positional workstream label for index i:
// A..Z, then AA, AB, ... AZ, BA, ... (bijective base-26).
func Label(i int) string {
	if i < 0 {
		return ""
	}
	var buf [16]byte
	n := len(buf)
	for i++; i > 0; i = (i - 1) / 26 {
		n--
		buf[n] = byte('A' + (i-1)%26)
	}
	return string(buf[n:])
}
