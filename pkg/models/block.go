package models

type BlockCategory string

const (
	BlockCategoryInput   BlockCategory = "input"
	BlockCategoryDisplay BlockCategory = "display"
	BlockCategoryContext BlockCategory = "context"
	BlockCategoryList    BlockCategory = "list"
)

type BlockMeta struct {
	Category  BlockCategory `json:"category" yaml:"category" validate:"omitempty,oneof=input display context list"`
	ValueType ValueType     `json:"valueType,omitempty" yaml:"valueType" validate:"omitempty,oneof=string number boolean array object date any"`
}

// BlockDefinition is the static configuration of one block. Every field typed any may hold an operator
// expression.
type BlockDefinition struct {
	BlockID    string                  `json:"blockId" yaml:"blockId" validate:"required"`
	Type       string                  `json:"type" yaml:"type"`
	Meta       BlockMeta               `json:"meta" yaml:"meta"`
	Properties map[string]any          `json:"properties,omitempty" yaml:"properties"`
	Visible    any                     `json:"visible,omitempty" yaml:"visible"`
	Required   any                     `json:"required,omitempty" yaml:"required"`
	Validate   []ValidationRule        `json:"validate,omitempty" yaml:"validate" validate:"dive"`
	Actions    map[string][]ActionStep `json:"actions,omitempty" yaml:"actions" validate:"dive,dive"`
	Areas      map[string]Area         `json:"areas,omitempty" yaml:"areas" validate:"dive"`
}

type Area struct {
	Blocks []BlockDefinition `json:"blocks" yaml:"blocks" validate:"dive"`
}

func (b BlockDefinition) IsInput() bool {
	return b.Meta.Category == BlockCategoryInput
}

// Walk visits the block and its area blocks depth first. Area names are visited in sorted order so the
// visit order is stable.
func (b BlockDefinition) Walk(visit func(block BlockDefinition)) {
	visit(b)

	for _, name := range sortedKeys(b.Areas) {
		for _, child := range b.Areas[name].Blocks {
			child.Walk(visit)
		}
	}
}
