package prompts

import "time"

// Prompt is the root of a versioned prompt graph. OwnerID is the scope (project or personal
// project) that owns the prompt and partitions tag names.
type Prompt struct {
	ID          int64   `gorm:"column:id;primaryKey;autoIncrement:true" json:"id"`
	Name        string  `gorm:"column:name;not null" json:"name"`
	Description *string `gorm:"column:description;type:text" json:"description,omitempty"`
	OwnerID     int64   `gorm:"column:owner_id;not null;index:idx_prompt_owner_created" json:"owner_id"`

	Versions []*PromptVersion `gorm:"foreignKey:PromptID;constraint:OnDelete:CASCADE" json:"versions,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime;index:idx_prompt_owner_created" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Prompt) TableName() string { return "prompt" }

// NewPrompt returns a prompt carrying entity defaults.
func NewPrompt() *Prompt {
	return &Prompt{Versions: []*PromptVersion{}}
}

// AddVersion appends v to the owned collection and points the ownership edge back at p.
func (p *Prompt) AddVersion(v *PromptVersion) {
	if p == nil || v == nil {
		return
	}
	v.Prompt = p
	v.Position = len(p.Versions)
	p.Versions = append(p.Versions, v)
}

// PrimaryVersion is the first version, the one a creating caller reads back.
func (p *Prompt) PrimaryVersion() *PromptVersion {
	if p == nil || len(p.Versions) == 0 {
		return nil
	}
	return p.Versions[0]
}

// LatestVersion returns the most recently created version.
func (p *Prompt) LatestVersion() *PromptVersion {
	if p == nil || len(p.Versions) == 0 {
		return nil
	}
	var latest *PromptVersion
	for _, v := range p.Versions {
		if v == nil {
			continue
		}
		if latest == nil || v.CreatedAt.After(latest.CreatedAt) || (v.CreatedAt.Equal(latest.CreatedAt) && v.ID > latest.ID) {
			latest = v
		}
	}
	return latest
}
