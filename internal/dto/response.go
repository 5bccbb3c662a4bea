package dto

// ── pagination ──

// PaginationRequest common paging parameters
type PaginationRequest struct {
	Page     int `form:"page"      binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// GetPage page number with default
func (p *PaginationRequest) GetPage() int {
	if p.Page <= 0 {
		return 1
	}
	return p.Page
}

// GetPageSize page size with default and upper bound
func (p *PaginationRequest) GetPageSize() int {
	switch {
	case p.PageSize <= 0:
		return 10
	case p.PageSize > 100:
		return 100
	}
	return p.PageSize
}

// GetOffset (page-1)*page_size
func (p *PaginationRequest) GetOffset() int {
	return (p.GetPage() - 1) * p.GetPageSize()
}

// ── embedded references ──

// UserBrief instructor / pic summary embedded in other rows
type UserBrief struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

// LabRoomBrief lab room summary embedded in other rows
type LabRoomBrief struct {
	ID      string `json:"id"`
	KodeLab string `json:"kode_lab"`
	NamaLab string `json:"nama_lab"`
}

// CourseBrief course summary embedded in schedule rows
type CourseBrief struct {
	ID     string `json:"id"`
	KodeMK string `json:"kode_mk"`
	NamaMK string `json:"nama_mk"`
}
