package codegen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// The plan can be built by hand: whichTypeDecl and whichMethod only
// consume the resolved names, tag values, and payload expressions,
// never the schema message. This mirrors spec §8 scenario 5: a Text
// member at discriminant 0 and an Int32 member at discriminant 1.
func shapePlan() unionPlan {
	return unionPlan{
		whichTypeName: "Shape_Which",
		variants: []unionVariant{
			{
				constName:   "Shape_Which_A",
				fieldName:   "A",
				tagValue:    0,
				readerType:  "string",
				readerExpr:  "r.reader.Text(0)",
				builderType: "string",
				builderExpr: "b.builder.Text(0)",
			},
			{
				constName:   "Shape_Which_B",
				fieldName:   "B",
				tagValue:    1,
				readerType:  "int32",
				readerExpr:  "r.reader.Int32(0)",
				builderType: "int32",
				builderExpr: "b.builder.Int32(0)",
			},
		},
		whichExprReader:  "Shape_Which(r.reader.Uint16(2))",
		whichExprBuilder: "Shape_Which(b.builder.Uint16(2))",
	}
}

func TestWhichTypeDeclUsesDeclaredTagValues(t *testing.T) {
	got := render(shapePlan().whichTypeDecl("Shape"))

	assert.Contains(t, got, "type Shape_Which uint16")
	assert.Contains(t, got, "Shape_Which_A Shape_Which = 0")
	assert.Contains(t, got, "Shape_Which_B Shape_Which = 1")
}

func TestWhichTypeDeclEmitsPayloadSumsPerSide(t *testing.T) {
	got := render(shapePlan().whichTypeDecl("Shape"))

	assert.Contains(t, got, "type Shape_WhichReader struct {")
	assert.Contains(t, got, "type Shape_WhichBuilder struct {")
	assert.Contains(t, got, "Kind Shape_Which")
	assert.Contains(t, got, "A string")
	assert.Contains(t, got, "B int32")
}

func TestWhichTypeDeclStringMethod(t *testing.T) {
	got := render(shapePlan().whichTypeDecl("Shape"))

	assert.Contains(t, got, "func (v Shape_Which) String() string {")
	assert.Contains(t, got, `return "A"`)
	assert.Contains(t, got, `return "unknown"`)
}

func TestWhichMethodConstructsArmWithPayload(t *testing.T) {
	plan := shapePlan()

	reader := render(plan.whichMethod("Shape", true))
	assert.Contains(t, reader, "func (r ShapeReader) Which() (Shape_WhichReader, bool) {")
	assert.Contains(t, reader, "switch Shape_Which(r.reader.Uint16(2)) {")
	assert.Contains(t, reader, "return Shape_WhichReader{Kind: Shape_Which_A, A: r.reader.Text(0)}, true")
	assert.Contains(t, reader, "return Shape_WhichReader{Kind: Shape_Which_B, B: r.reader.Int32(0)}, true")

	builder := render(plan.whichMethod("Shape", false))
	assert.Contains(t, builder, "func (b ShapeBuilder) Which() (Shape_WhichBuilder, bool) {")
	assert.Contains(t, builder, "return Shape_WhichBuilder{Kind: Shape_Which_B, B: b.builder.Int32(0)}, true")
}

func TestWhichMethodUnknownDiscriminantIsNotOk(t *testing.T) {
	got := render(shapePlan().whichMethod("Shape", true))

	lines := strings.Split(got, "\n")
	var defaultArm string
	for i, l := range lines {
		if strings.TrimSpace(l) == "default:" && i+1 < len(lines) {
			defaultArm = strings.TrimSpace(lines[i+1])
		}
	}
	assert.Equal(t, "return Shape_WhichReader{}, false", defaultArm)
}
