package snapshot

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/san-kum/flocksim/internal/flock"
)

func sampleBoids() []flock.Boid {
	return []flock.Boid{
		{ID: 7, Pos: flock.Vec2{X: 10.25, Y: 20.5}, Vel: flock.Vec2{X: -1.5, Y: 0.125}, Speed: 1.505, Color: flock.Color{R: 255, G: 128, B: 1}},
		{ID: 2, Pos: flock.Vec2{X: 0, Y: 0}, Vel: flock.Vec2{X: 0, Y: 0}},
		{ID: 3, Pos: flock.Vec2{X: 639.999, Y: 479}, Vel: flock.Vec2{X: 3, Y: -3}, Speed: 3, Color: flock.Color{R: 1, G: 2, B: 3}},
	}
}

var _ = Describe("Document", func() {
	It("round-trips boids in order", func() {
		d := FromBoids(sampleBoids(), 640, 480, 12)
		Expect(d.ToBoids()).To(Equal(sampleBoids()))
		Expect(d.Validate()).To(Succeed())
	})

	It("rejects duplicate ids", func() {
		boids := sampleBoids()
		boids[2].ID = 7
		Expect(FromBoids(boids, 640, 480, 0).Validate()).To(MatchError(ErrDuplicateID))
	})

	DescribeTable("rejects non-finite motion",
		func(modify func(*Record)) {
			d := FromBoids(sampleBoids(), 640, 480, 0)
			modify(&d.Boids[1])
			Expect(d.Validate()).To(MatchError(ErrNonFinite))
		},
		Entry("infinite vx", func(r *Record) { r.VX = math.Inf(1) }),
		Entry("negative infinite vy", func(r *Record) { r.VY = math.Inf(-1) }),
		Entry("NaN speed", func(r *Record) { r.Speed = math.NaN() }),
	)

	It("rejects boids outside the area", func() {
		boids := sampleBoids()
		boids[0].Pos.X = 640
		Expect(FromBoids(boids, 640, 480, 0).Validate()).To(MatchError(flock.ErrOutOfBounds))
	})

	It("rejects an empty area", func() {
		Expect(FromBoids(nil, 0, 480, 0).Validate()).To(MatchError(flock.ErrParameterBounds))
	})
})

var _ = Describe("JSON codec", func() {
	It("round-trips a document", func() {
		d := FromBoids(sampleBoids(), 640, 480, 99)

		var buf bytes.Buffer
		Expect(EncodeJSON(&buf, d)).To(Succeed())
		got, err := DecodeJSON(&buf)
		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(Equal(d))
	})

	It("encodes color as an array", func() {
		var buf bytes.Buffer
		Expect(EncodeJSON(&buf, FromBoids(sampleBoids()[:1], 640, 480, 0))).To(Succeed())
		Expect(buf.String()).To(ContainSubstring(`"color": [`))
	})

	DescribeTable("rejects documents that violate the schema",
		func(doc string) {
			_, err := DecodeJSON(strings.NewReader(doc))
			Expect(err).To(MatchError(ErrSchema))
		},
		Entry("missing boids", `{"width": 10, "height": 10}`),
		Entry("zero width", `{"width": 0, "height": 10, "boids": []}`),
		Entry("fractional height", `{"width": 10, "height": 10.5, "boids": []}`),
		Entry("unknown field", `{"width": 10, "height": 10, "boids": [], "wind": 3}`),
		Entry("record missing velocity", `{"width": 10, "height": 10, "boids": [{"id": 0, "x": 1, "y": 1}]}`),
		Entry("negative position", `{"width": 10, "height": 10, "boids": [{"id": 0, "x": -1, "y": 1, "vx": 0, "vy": 0}]}`),
		Entry("color out of range", `{"width": 10, "height": 10, "boids": [{"id": 0, "x": 1, "y": 1, "vx": 0, "vy": 0, "color": [256, 0, 0]}]}`),
		Entry("short color", `{"width": 10, "height": 10, "boids": [{"id": 0, "x": 1, "y": 1, "vx": 0, "vy": 0, "color": [1, 2]}]}`),
	)

	It("accepts a minimal record", func() {
		d, err := DecodeJSON(strings.NewReader(`{"width": 10, "height": 10, "boids": [{"id": 4, "x": 1, "y": 2, "vx": 0.5, "vy": -0.5}]}`))
		Expect(err).NotTo(HaveOccurred())
		Expect(d.Boids).To(HaveLen(1))
		Expect(d.Boids[0]).To(Equal(Record{ID: 4, X: 1, Y: 2, VX: 0.5, VY: -0.5}))
	})

	It("reports malformed JSON without a schema error", func() {
		_, err := DecodeJSON(strings.NewReader(`{"width": `))
		Expect(err).To(HaveOccurred())
		Expect(err).NotTo(MatchError(ErrSchema))
	})
})

var _ = Describe("wire codec", func() {
	It("round-trips a document bit for bit", func() {
		d := FromBoids(sampleBoids(), 640, 480, 5000)

		var buf bytes.Buffer
		Expect(EncodeWire(&buf, d)).To(Succeed())
		got, err := DecodeWire(&buf)
		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(Equal(d))
	})

	It("round-trips an empty population", func() {
		d := &Document{Width: 3, Height: 4}

		var buf bytes.Buffer
		Expect(EncodeWire(&buf, d)).To(Succeed())
		got, err := DecodeWire(&buf)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Width).To(Equal(3))
		Expect(got.Height).To(Equal(4))
		Expect(got.Boids).To(BeEmpty())
	})

	It("skips unknown fields", func() {
		var b []byte
		b = protowire.AppendTag(b, 1, protowire.VarintType)
		b = protowire.AppendVarint(b, 64)
		b = protowire.AppendTag(b, 15, protowire.BytesType)
		b = protowire.AppendString(b, "ignored")
		b = protowire.AppendTag(b, 2, protowire.VarintType)
		b = protowire.AppendVarint(b, 32)

		d, err := DecodeWire(bytes.NewReader(b))
		Expect(err).NotTo(HaveOccurred())
		Expect(d.Width).To(Equal(64))
		Expect(d.Height).To(Equal(32))
	})

	It("rejects truncated input", func() {
		var buf bytes.Buffer
		Expect(EncodeWire(&buf, FromBoids(sampleBoids(), 640, 480, 1))).To(Succeed())
		data := buf.Bytes()

		_, err := DecodeWire(bytes.NewReader(data[:len(data)-3]))
		Expect(err).To(MatchError(ErrCorrupt))
	})
})

var _ = Describe("files", func() {
	var dir string

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
	})

	DescribeTable("writes and reads back by extension",
		func(name string) {
			path := filepath.Join(dir, name)
			d := FromBoids(sampleBoids(), 640, 480, 3)

			Expect(Write(path, d)).To(Succeed())
			got, err := Read(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(d))
		},
		Entry("json", "flock.json"),
		Entry("protobuf", "flock.pb"),
		Entry("upper-case extension", "FLOCK.JSON"),
	)

	It("rejects unknown extensions", func() {
		Expect(Write(filepath.Join(dir, "flock.csv"), &Document{})).To(MatchError(ErrFormat))
		_, err := Read(filepath.Join(dir, "flock.csv"))
		Expect(err).To(MatchError(ErrFormat))
	})

	It("rejects files with boids outside the area", func() {
		path := filepath.Join(dir, "bad.pb")
		boids := sampleBoids()
		boids[1].Pos.Y = 480
		Expect(Write(path, FromBoids(boids, 640, 480, 0))).To(Succeed())

		_, err := Read(path)
		Expect(err).To(MatchError(flock.ErrOutOfBounds))
	})

	It("rejects non-finite velocities read back from the wire format", func() {
		path := filepath.Join(dir, "inf.pb")
		boids := sampleBoids()
		boids[0].Vel.X = math.Inf(1)
		Expect(Write(path, FromBoids(boids, 640, 480, 0))).To(Succeed())

		_, err := Read(path)
		Expect(err).To(MatchError(ErrNonFinite))
	})

	It("reports missing files", func() {
		_, err := Read(filepath.Join(dir, "missing.json"))
		Expect(os.IsNotExist(err)).To(BeTrue())
	})
})
