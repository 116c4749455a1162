package seqstore

import (
	"bufio"
	"fmt"
	"os"

	"github.com/google/brotli/go/cbrotli"

	"hapcore/dna"
	"hapcore/readid"
)

// LoadBrotliFasta reads a brotli-compressed FASTA file into a MemContainer,
// grounded on constructcf.go's ReadBrFile2 (cbrotli.NewReader over a plain
// os.File). Read ids are assigned 1, 2, 3... in file order so RC() yields
// -1, -2, -3...
func LoadBrotliFasta(path string) (*MemContainer, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer fp.Close()

	br := cbrotli.NewReader(fp)
	defer br.Close()

	mc := NewMemContainer()
	scanner := bufio.NewScanner(br)
	scanner.Buffer(make([]byte, 1<<16), 1<<24)

	var nextID readid.ID = 1
	var cur []byte
	flush := func() {
		if len(cur) > 0 {
			mc.Add(nextID, dna.Sequence(cur))
			nextID++
			cur = nil
		}
	}
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		if line[0] == '>' {
			flush()
			continue
		}
		cur = append(cur, line...)
	}
	flush()
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", path, err)
	}
	return mc, nil
}

// WriteBrotliFasta writes mc out as a brotli-compressed FASTA file, mirroring
// constructcf.go's WriteBr (cbrotli.NewWriter with a conservative quality
// level for streaming output).
func WriteBrotliFasta(path string, mc *MemContainer) error {
	fp, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer fp.Close()

	bw := cbrotli.NewWriter(fp, cbrotli.WriterOptions{Quality: 1, LGWin: 21})
	defer bw.Close()

	for _, info := range mc.IterSeqs() {
		if _, err := fmt.Fprintf(bw, ">%d\n%s\n", info.ID, mc.GetSeq(info.ID).String()); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	return bw.Flush()
}
