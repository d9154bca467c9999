package models

// Revenue is one month of the revenue chart, in cents.
type Revenue struct {
	Month   string `gorm:"type:varchar(4);uniqueIndex;not null" json:"month"`
	Revenue int64  `gorm:"not null" json:"revenue"`
}

func (Revenue) TableName() string {
	return "revenue"
}
