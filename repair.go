package sgp4

// TLE columns carry implied decimal points and may leave optional fields
// blank. Before a line is scanned its fixed offsets are patched so that every
// field reads as an ordinary number or word. The table is applied in order;
// offsets are 0-based.

// lineBufferLen is the size of the scratch buffer a line is copied into.
// Bytes past the input are NUL and end the scan.
const lineBufferLen = 130

type repairCond int

const (
	always     repairCond = iota
	ifBlank               // the checked byte is ' '
	ifNotBlank            // the checked byte is not ' '
)

// repair writes value at offset when the byte at check satisfies when.
// A zero value copies the checked byte instead.
type repair struct {
	offset int
	check  int
	when   repairCond
	value  byte
}

func blankTo(from, to int, value byte) []repair {
	r := make([]repair, 0, to-from+1)
	for i := from; i <= to; i++ {
		r = append(r, repair{offset: i, check: i, when: ifBlank, value: value})
	}
	return r
}

func concatRepairs(parts ...[]repair) []repair {
	var out []repair
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

var line1Repairs = concatRepairs(
	// international designator: launch number and piece
	blankTo(10, 15, '_'),
	[]repair{
		// second derivative of mean motion: sign moves left, implied point
		{offset: 43, check: 44, when: ifNotBlank},
		{offset: 44, when: always, value: '.'},
		{offset: 7, check: 7, when: ifBlank, value: 'U'},
		{offset: 9, check: 9, when: ifBlank, value: '.'},
	},
	blankTo(45, 49, '0'),
	blankTo(51, 51, '0'),
	[]repair{
		// B*: sign moves left, implied point
		{offset: 52, check: 53, when: ifNotBlank},
		{offset: 53, when: always, value: '.'},
	},
	blankTo(62, 62, '0'),
	blankTo(68, 68, '0'),
)

var line2Repairs = concatRepairs(
	// eccentricity has an implied leading point
	[]repair{{offset: 25, when: always, value: '.'}},
	blankTo(26, 32, '0'),
)

// repairLine copies line into a NUL padded buffer and applies table.
func repairLine(line string, table []repair) []byte {
	n := lineBufferLen
	if len(line) >= n {
		n = len(line) + 1
	}
	buf := make([]byte, n)
	copy(buf, line)
	for _, r := range table {
		c := buf[r.check]
		switch r.when {
		case ifBlank:
			if c != ' ' {
				continue
			}
		case ifNotBlank:
			if c == ' ' {
				continue
			}
		}
		if r.value == 0 {
			buf[r.offset] = c
		} else {
			buf[r.offset] = r.value
		}
	}
	return buf
}
