package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"runtime/pprof"
	"strings"

	"github.com/dgraph-io/badger/v4"
	_ "github.com/lintang-b-s/routeplanner/docs"
	"github.com/lintang-b-s/routeplanner/pkg/kv"
	"github.com/lintang-b-s/routeplanner/pkg/osmparser"
	"github.com/lintang-b-s/routeplanner/pkg/server/rest"
	"github.com/lintang-b-s/routeplanner/pkg/server/rest/service"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

var (
	listenAddr = flag.String("listenaddr", ":5000", "server listen address")
	mapFile    = flag.String("f", "solo_jogja.osm.pbf", "openstreetmap file (.osm / .osm.pbf) for the road network")
	dbDir      = flag.String("db", "./routeplanner_db", "badger db directory for the h3 node index")
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
	memprofile = flag.String("memprofile", "", "write memory profile to this file")
)

//	@title			routeplanner lintangbs API
//	@version		1.0
//	@description	simple openstreetmap a* route planner in go

//	@contact.name	lintang birda saputra

//	@license.name	GNU Affero General Public License v3.0
//	@license.url	https://www.gnu.org/licenses/gpl-3.0.en.html

// @host		localhost:5000
// @BasePath	/api
// @schemes	http
func main() {
	flag.Parse()
	if *cpuprofile != "" {
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
	recordMemProfile(memprofile, "load_route_model")

	db, err := badger.Open(badger.DefaultOptions(*dbDir))
	if err != nil {
		log.Fatal(err)
	}
	kvDB := kv.NewKVDB(db)
	defer kvDB.Close()

	// reuse the index written by cmd/preprocessing (or a previous run) when it was built from this map.
	routableNodes := model.RoutableNodes()
	upToDate, err := kvDB.IndexUpToDate(routableNodes)
	if err != nil {
		log.Fatal(err)
	}
	if upToDate {
		log.Printf("h3 node index in %s matches %s, skip rebuild", *dbDir, *mapFile)
	} else {
		go func() {
			if err := kvDB.BuildH3IndexedNodes(ctx, routableNodes); err != nil {
				log.Printf("build h3 node index: %v", err)
			}
		}()
	}

	reg := prometheus.NewRegistry()
	m := rest.NewMetrics(reg)

	r := chi.NewRouter()

	r.Use(middleware.Logger)

	r.Use(rest.PromeHttpMiddleware(m)) // prometheus http middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Mount("/debug", middleware.Profiler())

	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("http://localhost:5000/swagger/doc.json"), //The url pointing to API definition
	))

	navigatorSvc := service.NewNavigationService(model, kvDB)
	recordMemProfile(memprofile, "service_init")

	rest.NavigatorRouter(r, navigatorSvc, m)

	fmt.Printf("\n A* route planner ready!!")
	fmt.Printf("\nserver started at %s\n", *listenAddr)

	log.Fatal(http.ListenAndServe(*listenAddr, r))
}

func recordMemProfile(memprofile *string, name string) {
	if *memprofile != "" {
		path := strings.Replace(*memprofile, ".mprof", fmt.Sprintf("%s.mprof", name), -1)
		f, err := os.Create(path)
		if err != nil {
			log.Fatal(err)
		}
		pprof.WriteHeapProfile(f)
		f.Close()
	}
}
