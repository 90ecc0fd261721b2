package genepool

import (
	"bytes"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
)

var update = flag.Bool("update", false, "rewrite golden files under testdata")

func mustGenerate(t *testing.T, cfg Config) *GenePool {
	t.Helper()

	p, err := Generate(cfg)
	if err != nil {
		t.Fatal(err)
	}

	return p
}

func TestGenerateShape(t *testing.T) {
	cases := []Config{
		{Length: 1, NumGenomes: 1, NumSNP: 0, ProbOther: 0, Seed: 1},
		{Length: 1, NumGenomes: 5, NumSNP: 1, ProbOther: 0.5, Seed: 2},
		{Length: 10, NumGenomes: 3, NumSNP: 2, ProbOther: 0, Seed: 42},
		{Length: 50, NumGenomes: 20, NumSNP: 7, ProbOther: 0.3, Seed: -9},
		{Length: 200, NumGenomes: 100, NumSNP: 200, ProbOther: 1, Seed: 123456789},
	}

	for _, cfg := range cases {
		p := mustGenerate(t, cfg)

		if p.Length != cfg.Length {
			t.Errorf("Got length %d, expected %d", p.Length, cfg.Length)
		}
		if len(p.Reference) != cfg.Length {
			t.Errorf("Got reference of length %d, expected %d", len(p.Reference), cfg.Length)
		}
		if len(p.Individuals) != cfg.NumGenomes {
			t.Errorf("Got %d individuals, expected %d", len(p.Individuals), cfg.NumGenomes)
		}
		for i, ind := range p.Individuals {
			if len(ind) != cfg.Length {
				t.Errorf("Individual %d has length %d, expected %d", i, len(ind), cfg.Length)
			}
		}
		if len(p.Locations) != cfg.NumSNP {
			t.Errorf("Got %d locations, expected %d", len(p.Locations), cfg.NumSNP)
		}
		if !sort.IntsAreSorted(p.Locations) {
			t.Errorf("Locations %v are not sorted", p.Locations)
		}
		if !sort.StringsAreSorted(p.Individuals) {
			t.Errorf("Individuals are not sorted")
		}
		if err := p.Check(); err != nil {
			t.Errorf("%+v: %v", cfg, err)
		}
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	cfg := Config{Length: 100, NumGenomes: 40, NumSNP: 10, ProbOther: 0.25, Seed: 7}

	first, err := Encode(mustGenerate(t, cfg))
	if err != nil {
		t.Fatal(err)
	}
	second, err := Encode(mustGenerate(t, cfg))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first, second) {
		t.Errorf("Two runs with seed %d produced different documents", cfg.Seed)
	}

	cfg.Seed = 8
	other, err := Encode(mustGenerate(t, cfg))
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(first, other) {
		t.Errorf("Seeds 7 and 8 produced the same document")
	}
}

func TestGenerateWithoutSNPs(t *testing.T) {
	p := mustGenerate(t, Config{Length: 30, NumGenomes: 10, NumSNP: 0, ProbOther: 0, Seed: 3})

	if len(p.Locations) != 0 {
		t.Errorf("Got locations %v, expected none", p.Locations)
	}
	if p.SusceptibleLoc != 0 || p.SusceptibleBase != "" {
		t.Errorf("Got marker (%d, %q), expected (0, \"\")", p.SusceptibleLoc, p.SusceptibleBase)
	}
	for i, ind := range p.Individuals {
		if ind != p.Reference {
			t.Errorf("Individual %d differs from the reference", i)
		}
	}

	data, err := Encode(p)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"locations": []`) {
		t.Errorf("Expected an empty locations array in\n%s", data)
	}
}

func TestGenerateWithoutSNPsBackgroundOnly(t *testing.T) {
	p := mustGenerate(t, Config{Length: 30, NumGenomes: 10, NumSNP: 0, ProbOther: 1, Seed: 4})

	for i, ind := range p.Individuals {
		if d := hamming(ind, p.Reference); d != 1 {
			t.Errorf("Individual %d differs from the reference at %d positions, expected 1", i, d)
		}
	}
}

func TestGenerateNoBackgroundMutation(t *testing.T) {
	p := mustGenerate(t, Config{Length: 60, NumGenomes: 50, NumSNP: 6, ProbOther: 0, Seed: 11})

	snp := make(map[int]bool)
	for _, loc := range p.Locations {
		snp[loc] = true
	}

	for i, ind := range p.Individuals {
		for pos := 0; pos < p.Length; pos++ {
			if snp[pos] {
				continue
			}
			if ind[pos] != p.Reference[pos] {
				t.Errorf("Individual %d differs from the reference at non-SNP position %d", i, pos)
			}
		}
	}
}

func TestGenerateEverySiteIsSNP(t *testing.T) {
	cfg := Config{Length: 8, NumGenomes: 25, NumSNP: 8, ProbOther: 1, Seed: 5}
	p := mustGenerate(t, cfg)

	for pos := 0; pos < cfg.Length; pos++ {
		if p.Locations[pos] != pos {
			t.Fatalf("Got locations %v, expected every position", p.Locations)
		}
	}
	if err := p.Check(); err != nil {
		t.Error(err)
	}
}

func TestReferenceAlleleCalibration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping calibration in short mode")
	}

	p := mustGenerate(t, Config{Length: 10, NumGenomes: 100000, NumSNP: 1, ProbOther: 0, Seed: 2022})

	f, err := p.Frequencies(p.Locations[0])
	if err != nil {
		t.Fatal(err)
	}

	if ref := f.ReferenceFrequency(); ref < 0.65 || ref > 0.75 {
		t.Errorf("Got reference allele frequency %.4f, expected about 0.70", ref)
	}

	var others []float64
	for i := 0; i < len(Alphabet); i++ {
		if Allele(Alphabet[i]) != f.Reference {
			others = append(others, f.Frequency(Allele(Alphabet[i])))
		}
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(others)))
	for i, want := range SNPWeights[1:] {
		if got := others[i]; got < want-0.02 || got > want+0.02 {
			t.Errorf("Got non-reference frequency %.4f, expected about %.2f", got, want)
		}
	}
}

func TestSusceptibilityMarker(t *testing.T) {
	for seed := int64(0); seed < 50; seed++ {
		p := mustGenerate(t, Config{Length: 20, NumGenomes: 30, NumSNP: 4, ProbOther: 0.5, Seed: seed})

		found := false
		for _, loc := range p.Locations {
			if loc == p.SusceptibleLoc {
				found = true
			}
		}
		if !found {
			t.Errorf("Seed %d: susceptible_loc %d not in %v", seed, p.SusceptibleLoc, p.Locations)
		}

		if p.SusceptibleBase == "" {
			continue
		}
		if p.SusceptibleBase[0] == p.Reference[p.SusceptibleLoc] {
			t.Errorf("Seed %d: susceptible_base %s equals the reference", seed, p.SusceptibleBase)
		}

		carriers := 0
		for _, ind := range p.Individuals {
			if p.Carrier(ind) {
				carriers++
			}
		}
		if carriers == 0 {
			t.Errorf("Seed %d: nobody carries the susceptibility marker", seed)
		}
	}
}

func TestGoldenPools(t *testing.T) {
	cases := []struct {
		golden string
		cfg    Config
	}{
		{"small_pool_seed42.json", Config{Length: 10, NumGenomes: 3, NumSNP: 2, ProbOther: 0.0, Seed: 42}},
		{"background_pool_seed7.json", Config{Length: 40, NumGenomes: 8, NumSNP: 5, ProbOther: 0.5, Seed: 7}},
	}

	for _, c := range cases {
		first, err := Encode(mustGenerate(t, c.cfg))
		if err != nil {
			t.Fatal(err)
		}
		second, err := Encode(mustGenerate(t, c.cfg))
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(first, second) {
			t.Fatalf("Got different documents:\n%s\n%s", first, second)
		}

		golden := filepath.Join("testdata", c.golden)
		if *update {
			if err := os.WriteFile(golden, first, 0o644); err != nil {
				t.Fatal(err)
			}
		}

		want, err := os.ReadFile(golden)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(first, want) {
			t.Errorf("%s: Got\n%s\nexpected\n%s", c.golden, first, want)
		}
	}
}

func TestGoldenSmallPoolValues(t *testing.T) {
	p := mustGenerate(t, Config{Length: 10, NumGenomes: 3, NumSNP: 2, ProbOther: 0.0, Seed: 42})

	if p.Reference != "CTAGTCCAAT" {
		t.Errorf("Got reference %s, expected CTAGTCCAAT", p.Reference)
	}
	if len(p.Locations) != 2 || p.Locations[0] != 3 || p.Locations[1] != 9 {
		t.Errorf("Got locations %v, expected [3 9]", p.Locations)
	}
	// Everyone carries the reference T at 9, so no marker base exists.
	if p.SusceptibleLoc != 9 || p.SusceptibleBase != "" {
		t.Errorf("Got marker (%d, %q), expected (9, \"\")", p.SusceptibleLoc, p.SusceptibleBase)
	}
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		cfg   Config
		field string
	}{
		{Config{Length: 0, NumGenomes: 1}, "length"},
		{Config{Length: -3, NumGenomes: 1}, "length"},
		{Config{Length: 5, NumGenomes: 0}, "num_genomes"},
		{Config{Length: 5, NumGenomes: 1, NumSNP: -1}, "num_snp"},
		{Config{Length: 5, NumGenomes: 1, NumSNP: 6}, "num_snp"},
		{Config{Length: 5, NumGenomes: 1, ProbOther: -0.1}, "prob_other"},
		{Config{Length: 5, NumGenomes: 1, NumSNP: 5, ProbOther: 2}, ""},
	}

	for _, c := range cases {
		err := c.cfg.Validate()
		if c.field == "" {
			if err != nil {
				t.Errorf("%+v: unexpected error %v", c.cfg, err)
			}
			continue
		}

		var cerr *ConfigError
		if !errors.As(err, &cerr) {
			t.Errorf("%+v: got %v, expected a *ConfigError", c.cfg, err)
			continue
		}
		if cerr.Field != c.field {
			t.Errorf("Got field %s, expected %s", cerr.Field, c.field)
		}

		if p, err := Generate(c.cfg); p != nil || !errors.As(err, &cerr) {
			t.Errorf("%+v: Generate returned (%v, %v), expected a *ConfigError", c.cfg, p, err)
		}
	}
}

func TestCheck(t *testing.T) {
	valid := func() *GenePool {
		return &GenePool{
			Length:          4,
			Reference:       "ACGT",
			Individuals:     []string{"ACGT", "TCGT"},
			Locations:       []int{0, 2},
			SusceptibleLoc:  0,
			SusceptibleBase: "T",
		}
	}

	if err := valid().Check(); err != nil {
		t.Fatal(err)
	}

	cases := map[string]func(p *GenePool){
		"short individual":       func(p *GenePool) { p.Individuals[1] = "TCG" },
		"bad symbol":             func(p *GenePool) { p.Individuals[0] = "ACNT" },
		"location out of range":  func(p *GenePool) { p.Locations = []int{0, 4} },
		"repeated location":      func(p *GenePool) { p.Locations = []int{0, 0} },
		"marker off SNP":         func(p *GenePool) { p.SusceptibleLoc = 1 },
		"marker equals ref":      func(p *GenePool) { p.SusceptibleBase = "A" },
		"marker without SNPs":    func(p *GenePool) { p.Locations = nil },
		"marker not one base":    func(p *GenePool) { p.SusceptibleBase = "TT" },
		"reference wrong length": func(p *GenePool) { p.Reference = "ACG" },
	}

	for name, mutate := range cases {
		p := valid()
		mutate(p)
		if err := p.Check(); !errors.Is(err, ErrInvariant) {
			t.Errorf("%s: got %v, expected ErrInvariant", name, err)
		}
	}
}

func TestCarrier(t *testing.T) {
	p := &GenePool{Length: 3, Reference: "AAA", SusceptibleLoc: 1, SusceptibleBase: "G"}

	if !p.Carrier("AGA") {
		t.Error("AGA should carry G at 1")
	}
	if p.Carrier("AAA") || p.Carrier("GAG") || p.Carrier("A") {
		t.Error("Unexpected carrier")
	}

	p.SusceptibleLoc = -1
	if p.Carrier("AGA") {
		t.Error("A negative locus has no carriers")
	}

	p.SusceptibleBase = ""
	if p.Carrier("AGA") {
		t.Error("A pool without a marker has no carriers")
	}
}

func hamming(a, b string) int {
	d := 0
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			d++
		}
	}

	return d
}
