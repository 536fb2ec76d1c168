package main

import (
	"context"
	"flag"
	"log"
	"os"
	"runtime/pprof"

	"github.com/dgraph-io/badger/v4"
	"github.com/lintang-b-s/routeplanner/pkg/kv"
	"github.com/lintang-b-s/routeplanner/pkg/osmparser"
)

var (
	mapFile    = flag.String("f", "solo_jogja.osm.pbf", "openstreetmap file (.osm / .osm.pbf) for the road network")
	dbDir      = flag.String("db", "./routeplanner_db", "badger db directory for the h3 node index")
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
)

func main() {
	flag.Parse()
	if *cpuprofile != "" {
		// ./bin/routeplanner-preprocessing -cpuprofile=routeplannercpu.prof
		f, err := os.Create(*cpuprofile)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()

		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log.Printf("reading osm file %s", *mapFile)
	osmParser := osmparser.NewOSMParser(true)
	model, err := osmParser.Parse(ctx, *mapFile)
	if err != nil {
		log.Fatal(err)
	}

	db, err := badger.Open(badger.DefaultOptions(*dbDir))
	if err != nil {
		log.Fatal(err)
	}
	kvDB := kv.NewKVDB(db)
	defer kvDB.Close()

	if err := kvDB.BuildH3IndexedNodes(ctx, model.RoutableNodes()); err != nil {
		log.Printf("build h3 node index: %v", err)
		return
	}
	log.Printf("preprocessing done, %d routable nodes indexed", len(model.RoutableNodes()))
}
