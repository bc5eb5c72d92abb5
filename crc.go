package parquet

// ValidateCRC implements spec §4.2 step 6 / §9's supplemented CRC check, grounded on the
// Java original's CrcValidator: compute CRC-32 (IEEE) over the compressed page data as
// stored, compare against the header's optional crc. hash/crc32 is stdlib and is the
// correct tool here — no third-party CRC-32/IEEE implementation appears anywhere in the
// retrieved pack, and re-implementing IEEE CRC-32 by hand would just duplicate a trivial,
// well-tested stdlib function (justified stdlib use; see DESIGN.md).
import "hash/crc32"

func ValidateCRC(compressed []byte, expected int32) error {
	got := int32(crc32.ChecksumIEEE(compressed))
	if got != expected {
		return corruptf("page CRC mismatch: header=%d computed=%d", expected, got)
	}
	return nil
}
