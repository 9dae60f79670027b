package model_test

import (
	"math"
	"testing"

	"github.com/okian/rigcheck/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestParse(t *testing.T) {
	Convey("Given user supplied category and budget names", t, func() {
		Convey("Then categories parse case-insensitively", func() {
			ct, err := model.ParseComponentType(" GPU ")
			So(err, ShouldBeNil)
			So(ct, ShouldEqual, model.GPU)
			_, err = model.ParseComponentType("psu")
			So(err, ShouldNotBeNil)
		})

		Convey("Then an empty budget means medium", func() {
			b, err := model.ParseBudget("")
			So(err, ShouldBeNil)
			So(b, ShouldEqual, model.BudgetMedium)
			b, err = model.ParseBudget("High")
			So(err, ShouldBeNil)
			So(b, ShouldEqual, model.BudgetHigh)
			_, err = model.ParseBudget("unlimited")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestRAMLabels(t *testing.T) {
	Convey("Given RAM labels", t, func() {
		Convey("Then the size is read from '<n> GB' anywhere in the label", func() {
			n, ok := model.RAMSizeGB("Kingston 32GB DDR5")
			So(ok, ShouldBeTrue)
			So(n, ShouldEqual, 32)
			_, ok = model.RAMSizeGB("sixteen")
			So(ok, ShouldBeFalse)
		})

		Convey("Then sizes past the int range saturate", func() {
			n, ok := model.RAMSizeGB("99999999999999999999 GB")
			So(ok, ShouldBeTrue)
			So(n, ShouldEqual, math.MaxInt)
			n, ok = model.LeadingInt("-99999999999999999999 GB")
			So(ok, ShouldBeTrue)
			So(n, ShouldEqual, math.MinInt)
		})

		Convey("Then the leading integer ignores trailing text", func() {
			n, ok := model.LeadingInt("16 GB")
			So(ok, ShouldBeTrue)
			So(n, ShouldEqual, 16)
			n, ok = model.LeadingInt("  8GB DDR4")
			So(ok, ShouldBeTrue)
			So(n, ShouldEqual, 8)
			_, ok = model.LeadingInt("DDR4 16 GB")
			So(ok, ShouldBeFalse)
		})
	})
}

func TestClone(t *testing.T) {
	Convey("Given a game profile", t, func() {
		g := model.Game{Title: "X", High: model.Tier{CPU: []string{"a"}, GPU: []string{"b"}, RAM: "16 GB"}}

		Convey("When the clone is modified", func() {
			c := g.Clone()
			c.High.CPU[0] = "z"

			Convey("Then the original keeps its candidates", func() {
				So(g.High.CPU[0], ShouldEqual, "a")
			})
		})
	})

	Convey("Given a PC", t, func() {
		pc := model.PC{CPU: "c", GPU: "g", RAM: "r"}
		So(pc.Part(model.CPU), ShouldEqual, "c")
		So(pc.Part(model.GPU), ShouldEqual, "g")
		So(pc.Part(model.RAM), ShouldEqual, "r")
		So(pc.Part("psu"), ShouldBeEmpty)
	})
}
