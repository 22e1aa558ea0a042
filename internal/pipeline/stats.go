package pipeline

// RunStats tracks aggregate counters and byte totals for one pass.
type RunStats struct {
	Directories int
	Images      int // qualifying images found (encode) or restored (decode)
	Artifacts   int // encrypted artifacts written (encode) or consumed (decode)
	Failed      int

	TotalInputBytes     int64 // original images
	TotalArchiveBytes   int64 // transient archives
	TotalEncryptedBytes int64 // IV + ciphertext
}

// SpaceSaved returns the byte difference between the original images and the
// encrypted artifacts. Positive means the artifacts are smaller.
func (s *RunStats) SpaceSaved() int64 {
	return s.TotalInputBytes - s.TotalEncryptedBytes
}

// Ratio returns encrypted bytes as a percentage of input bytes, or 100 when
// nothing was read.
func (s *RunStats) Ratio() int64 {
	if s.TotalInputBytes <= 0 {
		return 100
	}
	return s.TotalEncryptedBytes * 100 / s.TotalInputBytes
}
