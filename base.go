package genepool

// Allele is the symbol a sequence carries at one locus.
type Allele byte

func (a Allele) String() string {
	return string(a)
}

// IsBase reports whether b is one of the symbols in Alphabet.
func IsBase(b byte) bool {
	_, ok := baseCode(b)
	return ok
}

// baseCode maps a base onto its 2-bit code, which is its position in
// Alphabet.
func baseCode(b byte) (uint8, bool) {
	switch b {
	case 'A':
		return 0, true
	case 'C':
		return 1, true
	case 'G':
		return 2, true
	case 'T':
		return 3, true
	}

	return 0, false
}

// codeBase is the inverse of baseCode. Only the low two bits are used.
func codeBase(code uint8) byte {
	return Alphabet[code&3]
}

// otherBases returns the three bases that differ from b, sorted.
func otherBases(b byte) []byte {
	out := make([]byte, 0, len(Alphabet)-1)
	for i := 0; i < len(Alphabet); i++ {
		if Alphabet[i] != b {
			out = append(out, Alphabet[i])
		}
	}

	return out
}

// WhichSQLiteDriver names the database/sql driver used for pool indexes in
// this build.
func WhichSQLiteDriver() string {
	return whichSQLiteDriver
}
