// synthesize-genomes generates a reference genome and a population of
// individuals carrying SNPs, background mutations and one hidden
// susceptibility marker, and writes the result as JSON.
package main

import (
	"context"
	"flag"
	"log"

	"github.com/carbocation/genepool"
	"github.com/dustin/go-humanize"
)

func main() {
	length := flag.Int("length", 0, "Genome length (> 0)")
	numGenomes := flag.Int("num_genomes", 0, "Number of genomes (> 0)")
	numSNP := flag.Int("num_snp", 0, "Number of SNPs (0 <= num_snp <= length)")
	probOther := flag.Float64("prob_other", 0, "Probability of one other mutation per genome (>= 0.0)")
	seed := flag.Int64("seed", 0, "RNG seed")
	outfile := flag.String("outfile", "", "Output file (stdout if empty; gs://bucket/object for Cloud Storage; .zst suffix to compress)")
	idxPath := flag.String("index", "", "Optional path of a SQLite index to write for the generated pool")
	flag.Parse()

	cfg := genepool.Config{
		Length:     *length,
		NumGenomes: *numGenomes,
		NumSNP:     *numSNP,
		ProbOther:  *probOther,
		Seed:       *seed,
	}
	if err := cfg.Validate(); err != nil {
		flag.PrintDefaults()
		log.Fatalln(err)
	}

	pool, err := genepool.Generate(cfg)
	if err != nil {
		log.Fatalln(err)
	}

	n, err := genepool.Write(context.Background(), *outfile, pool)
	if err != nil {
		log.Fatalln(err)
	}
	if *outfile != "" && *outfile != genepool.Stdout {
		log.Printf("Wrote %s genomes (%s) to %s\n", humanize.Comma(int64(len(pool.Individuals))), humanize.Bytes(uint64(n)), *outfile)
	}

	if *idxPath != "" {
		if err := genepool.WriteIndex(*idxPath, cfg, pool); err != nil {
			log.Fatalln(err)
		}
		log.Println("Wrote index", *idxPath, "using driver", genepool.WhichSQLiteDriver())
	}

	for _, loc := range pool.Locations {
		f, err := pool.Frequencies(loc)
		if err != nil {
			log.Fatalln(err)
		}
		marker := ""
		if loc == pool.SusceptibleLoc {
			marker = " (susceptibility locus)"
		}
		log.Printf("SNP %d%s: reference %s at %.3f, counts %v\n", loc, marker, f.Reference, f.ReferenceFrequency(), f.Counts)
	}
	if pool.SusceptibleBase != "" {
		carriers := 0
		for _, ind := range pool.Individuals {
			if pool.Carrier(ind) {
				carriers++
			}
		}
		log.Printf("Susceptibility marker %s at %d carried by %s of %s genomes\n", pool.SusceptibleBase, pool.SusceptibleLoc,
			humanize.Comma(int64(carriers)), humanize.Comma(int64(len(pool.Individuals))))
	}
}
