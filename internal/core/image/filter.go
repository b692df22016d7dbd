package image

// FilterOptions 候選圖片的長寬比與尺寸門檻
type FilterOptions struct {
	MinRatio      float64
	MaxRatio      float64
	MinDimension  int
	MaxCandidates int
}

// acceptable 有尺寸資訊時才過濾；沒有尺寸的項目一律接受
func (o FilterOptions) acceptable(item SearchItem) bool {
	if item.Width <= 0 || item.Height <= 0 {
		return true
	}
	ratio := float64(item.Height) / float64(item.Width)
	if ratio < o.MinRatio || ratio > o.MaxRatio {
		return false
	}
	if item.Height < o.MinDimension || item.Width < o.MinDimension {
		return false
	}
	return true
}

// FilterCandidates 依啟發式規則挑出候選網址；全數被過濾時退回原始列表
func FilterCandidates(items []SearchItem, opts FilterOptions) []string {
	primary := make([]SearchItem, 0, len(items))
	for _, item := range items {
		if opts.acceptable(item) {
			primary = append(primary, item)
		}
	}
	if len(primary) == 0 {
		primary = items
	}

	links := make([]string, 0, len(primary))
	for _, item := range primary {
		if item.Link == "" {
			continue
		}
		links = append(links, item.Link)
		if opts.MaxCandidates > 0 && len(links) >= opts.MaxCandidates {
			break
		}
	}
	return links
}
