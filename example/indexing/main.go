package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/carbocation/genepool"
)

func main() {
	idxPath := flag.String("index", "", "Filename of the pool index to inspect")
	show := flag.Int("show", 10, "Number of individuals to print")
	flag.Parse()

	if *idxPath == "" {
		flag.PrintDefaults()
		log.Fatalln("No index file given")
	}

	log.Println("Opening index:", *idxPath, "with driver", genepool.WhichSQLiteDriver())
	idx, err := genepool.OpenIndex(*idxPath)
	if err != nil {
		log.Fatalln(err)
	}
	defer idx.Close()

	log.Printf("Index metadata: %+v\n", idx.Metadata)
	log.Printf("Generated by run %s with config %+v\n", idx.Metadata.RunID, idx.Metadata.Config())

	sites, err := idx.Sites()
	if err != nil {
		log.Fatalln(err)
	}
	for i, site := range sites {
		fmt.Printf("%d) %+v\n", i, site)
	}
	log.Println("Saw", len(sites), "sites")

	ir, err := idx.NewIndividualReader()
	if err != nil {
		log.Fatalln(err)
	}
	defer ir.Close()

	for ind := ir.Read(); ind != nil; ind = ir.Read() {
		if ind.ID < *show {
			fmt.Println(ind.ID, ind.Sequence)
		}
	}
	if ir.Error() != nil {
		log.Fatalln("Reader error:", ir.Error())
	}
	log.Println("Iterated over", ir.IndividualsSeen, "individuals")

	pool, err := idx.Pool()
	if err != nil {
		log.Fatalln(err)
	}
	checksum, err := genepool.Checksum(pool)
	if err != nil {
		log.Fatalln(err)
	}
	if checksum != uint64(idx.Metadata.Checksum) {
		log.Fatalf("Checksum mismatch: index says %d, rebuilt pool has %d\n", idx.Metadata.Checksum, checksum)
	}
	log.Println("Rebuilt pool matches checksum", checksum)
}
