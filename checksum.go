package genepool

import (
	"fmt"

	"github.com/carbocation/pfx"
	"github.com/google/uuid"
	"github.com/snksoft/crc"
)

// Checksum is the CRC-32 of the pool's encoded document. Equal pools have
// equal checksums, so it identifies a document independently of where it was
// written.
func Checksum(p *GenePool) (uint64, error) {
	data, err := Encode(p)
	if err != nil {
		return 0, pfx.Err(err)
	}

	return crc.CalculateCRC(crc.CRC32, data), nil
}

// RunID names a configuration. Generate is deterministic, so the ID also
// names the pool the configuration produces.
func RunID(cfg Config) uuid.UUID {
	name := fmt.Sprintf("genepool:length=%d:num_genomes=%d:num_snp=%d:prob_other=%g:seed=%d",
		cfg.Length, cfg.NumGenomes, cfg.NumSNP, cfg.ProbOther, cfg.Seed)

	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(name))
}
