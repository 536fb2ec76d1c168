package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/lintang-b-s/routeplanner/pkg/engine/routingalgorithm"
	"github.com/lintang-b-s/routeplanner/pkg/osmparser"
)

var (
	mapFile = flag.String("f", "map.osm", "openstreetmap file (.osm / .osm.pbf) for the road network")
	startX  = flag.Float64("start_x", -1, "start x in percent (0-100) of the map, prompted if omitted")
	startY  = flag.Float64("start_y", -1, "start y in percent (0-100) of the map, prompted if omitted")
	endX    = flag.Float64("end_x", -1, "end x in percent (0-100) of the map, prompted if omitted")
	endY    = flag.Float64("end_y", -1, "end y in percent (0-100) of the map, prompted if omitted")
)

func main() {
	flag.Parse()

	log.Printf("reading osm file %s", *mapFile)
	model, err := osmparser.NewOSMParser(false).Parse(context.Background(), *mapFile)
	if err != nil {
		log.Fatal(err)
	}

	in := bufio.NewReader(os.Stdin)
	coords := []*float64{startX, startY, endX, endY}
	prompts := []string{"start x", "start y", "end x", "end y"}
	for i, c := range coords {
		if *c >= 0 && *c <= 100 {
			continue
		}
		v, err := promptPercent(in, os.Stdout, prompts[i])
		if err != nil {
			log.Fatal(err)
		}
		*c = v
	}

	planner := routingalgorithm.NewRoutePlanner(model, *startX, *startY, *endX, *endY)
	route, err := planner.AStarSearch()
	if err != nil {
		if errors.Is(err, routingalgorithm.ErrNoPathFound) {
			fmt.Println("No path found!")
			return
		}
		log.Fatal(err)
	}

	fmt.Printf("Distance: %.2f meters.\n", route.Distance)
	fmt.Printf("Nodes: %d, expanded: %d\n", len(route.Path), route.ExpandedNodes)
	fmt.Printf("Polyline: %s\n", route.Polyline())
}

// promptPercent ask until a value in [0, 100] is entered.
func promptPercent(in *bufio.Reader, out io.Writer, name string) (float64, error) {
	for {
		fmt.Fprintf(out, "Enter %s (0-100): ", name)
		line, err := in.ReadString('\n')
		if err != nil && (err != io.EOF || strings.TrimSpace(line) == "") {
			return 0, fmt.Errorf("read %s: %w", name, err)
		}

		v, perr := strconv.ParseFloat(strings.TrimSpace(line), 64)
		if perr == nil && v >= 0 && v <= 100 {
			return v, nil
		}
		fmt.Fprintln(out, "Invalid input, the value must be a number between 0 and 100.")
		if err == io.EOF {
			return 0, fmt.Errorf("read %s: %w", name, err)
		}
	}
}
