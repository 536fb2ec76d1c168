package osmparser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/k0kubun/go-ansi"
	"github.com/lintang-b-s/routeplanner/pkg/datastructure"
	"github.com/lintang-b-s/routeplanner/pkg/geo"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/paulmach/osm/osmxml"
	"github.com/schollz/progressbar/v3"
)

var (
	ErrEmptyMap          = errors.New("map has no road")
	ErrUnknownFileFormat = errors.New("unknown map file format, expected .osm or .osm.pbf")
)

type FileFormat int

const (
	OsmXML FileFormat = iota
	OsmPBF
)

func FileFormatFromName(mapFile string) (FileFormat, error) {
	name := strings.ToLower(filepath.Base(mapFile))
	switch {
	case strings.HasSuffix(name, ".pbf"):
		return OsmPBF, nil
	case strings.HasSuffix(name, ".osm"), strings.HasSuffix(name, ".xml"):
		return OsmXML, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnknownFileFormat, mapFile)
}

type nodeCoord struct {
	lat float64
	lon float64
}

type road struct {
	wayID    int64
	roadType datastructure.RoadType
	nodes    []osm.NodeID
}

type OsmParser struct {
	showProgress bool

	nodeCoords map[osm.NodeID]nodeCoord
	roads      []road
}

func NewOSMParser(showProgress bool) *OsmParser {
	return &OsmParser{
		showProgress: showProgress,
		nodeCoords:   make(map[osm.NodeID]nodeCoord),
		roads:        make([]road, 0),
	}
}

// Parse read an .osm / .osm.pbf file into a RouteModel.
func (p *OsmParser) Parse(ctx context.Context, mapFile string) (*datastructure.RouteModel, error) {
	format, err := FileFormatFromName(mapFile)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(mapFile)
	if err != nil {
		return nil, fmt.Errorf("open map file %s: %w", mapFile, err)
	}
	defer f.Close()

	return p.ParseReader(ctx, f, format)
}

func (p *OsmParser) ParseReader(ctx context.Context, r io.Reader, format FileFormat) (*datastructure.RouteModel, error) {
	p.nodeCoords = make(map[osm.NodeID]nodeCoord)
	p.roads = make([]road, 0)

	var scanner osm.Scanner
	switch format {
	case OsmPBF:
		scanner = osmpbf.New(ctx, r, 1)
	default:
		scanner = osmxml.New(ctx, r)
	}
	defer scanner.Close()

	countWays := 0
	countNodes := 0
	for scanner.Scan() {
		switch o := scanner.Object().(type) {
		case *osm.Node:
			if (countNodes+1)%100000 == 0 {
				log.Printf("reading openstreetmap nodes: %d...", countNodes+1)
			}
			countNodes++
			p.nodeCoords[o.ID] = nodeCoord{lat: o.Lat, lon: o.Lon}
		case *osm.Way:
			if len(o.Nodes) < 2 {
				continue
			}
			roadType, ok := datastructure.RoadTypeFromHighway(o.Tags.Find("highway"))
			if !ok {
				continue
			}
			if (countWays+1)%50000 == 0 {
				log.Printf("reading openstreetmap ways: %d...", countWays+1)
			}
			countWays++

			p.roads = append(p.roads, road{
				wayID:    int64(o.ID),
				roadType: roadType,
				nodes:    o.Nodes.NodeIDs(),
			})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan openstreetmap data: %w", err)
	}

	return p.buildModel()
}

// buildModel project the nodes of accepted roads and add them to a RouteModel.
// nodes referenced by a way but missing from the file are dropped from the road.
func (p *OsmParser) buildModel() (*datastructure.RouteModel, error) {
	extent := geo.NewMapExtent()
	for _, r := range p.roads {
		for _, nodeID := range r.nodes {
			if c, ok := p.nodeCoords[nodeID]; ok {
				extent.Extend(c.lat, c.lon)
			}
		}
	}
	if extent.IsEmpty() {
		return nil, ErrEmptyMap
	}

	projection := geo.NewMercatorProjection(extent)
	model := datastructure.NewRouteModel(projection.MetricScale())

	bar := p.newProgressBar(len(p.roads), "[cyan][1/1][reset] building route model...")

	nodeIDMap := make(map[osm.NodeID]int32)
	for _, r := range p.roads {
		roadNodes := make([]int32, 0, len(r.nodes))
		for _, osmNodeID := range r.nodes {
			c, ok := p.nodeCoords[osmNodeID]
			if !ok {
				continue
			}
			nodeID, ok := nodeIDMap[osmNodeID]
			if !ok {
				x, y := projection.Project(c.lat, c.lon)
				nodeID = model.AddNodeWithCoordinate(x, y, c.lat, c.lon)
				nodeIDMap[osmNodeID] = nodeID
			}
			roadNodes = append(roadNodes, nodeID)
		}
		if len(roadNodes) >= 2 {
			if _, err := model.AddRoad(r.wayID, r.roadType, roadNodes); err != nil {
				return nil, err
			}
		}
		if bar != nil {
			bar.Add(1)
		}
	}

	_, componentCount := model.ConnectedComponents()
	log.Printf("total roads: %d, total nodes: %d, connected components: %d, metric scale: %.2f m",
		model.NumRoads(), model.NumNodes(), componentCount, model.MetricScale())
	return model, nil
}

func (p *OsmParser) newProgressBar(max int, description string) *progressbar.ProgressBar {
	if !p.showProgress {
		return nil
	}
	return progressbar.NewOptions(max,
		progressbar.OptionSetWriter(ansi.NewAnsiStdout()),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(15),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}
