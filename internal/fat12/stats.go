package fat12

import "strings"

// Stats summarizes a volume.
type Stats struct {
	OEMName       string
	Label         string
	TotalBytes    int64
	FreeBytes     int64
	Files         int
	FATCopies     int
	SectorsPerFAT int
}

// Stats gathers the volume summary. The label comes from the volume label
// entry of the root directory when there is one, else from the boot sector.
func (v *Volume) Stats() (*Stats, error) {
	free, err := v.fat.CountFree()
	if err != nil {
		return nil, err
	}

	label, err := v.Label()
	if err != nil {
		return nil, err
	}

	files := 0
	err = v.Walk(WalkOptions{}, func(*Record) bool {
		files++
		return true
	})
	if err != nil {
		return nil, err
	}

	return &Stats{
		OEMName:       v.boot.OEMName(),
		Label:         label,
		TotalBytes:    int64(v.boot.TotalSectors) * int64(v.boot.BytesPerSector),
		FreeBytes:     int64(free) * int64(v.ClusterSize()),
		Files:         files,
		FATCopies:     int(v.boot.NumFATs),
		SectorsPerFAT: int(v.boot.SectorsPerFAT),
	}, nil
}

func (v *Volume) rootLabel() (string, error) {
	for s, err := range v.slots(rootDir) {
		if err != nil {
			return "", err
		}
		if s.entry.IsEnd() {
			break
		}
		if !s.entry.IsDeleted() && s.entry.IsVolumeLabel() {
			n := s.entry.ShortName()
			return strings.TrimRight(string(n[:]), " "), nil
		}
	}
	return "", nil
}

// Label returns the volume label, as reported by Stats.
func (v *Volume) Label() (string, error) {
	label, err := v.rootLabel()
	if err != nil || label != "" {
		return label, err
	}
	return v.boot.Label(), nil
}
