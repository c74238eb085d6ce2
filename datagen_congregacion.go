//go:build datagen
// +build datagen

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"discipulado/src/domain/entities"
	"discipulado/src/helper/env"
	"discipulado/src/infra/postgres"

	"github.com/go-faker/faker/v4"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SeederMember carrega a reference para os edges serem resolvidos depois
// do insert, quando os ids já existem.
type SeederMember struct {
	Reference string
	Name      string
	Roles     []string
	Profile   json.RawMessage
}

type SeederEdge struct {
	ParentRef string
	ChildRef  string
	Role      string
}

type SeederAttendance struct {
	MemberRef     string
	Key           string
	Value         json.RawMessage
	ReferenceDate time.Time
}

// CongregationBundle é uma congregação completa: pastor, doze, células e
// discípulos, com as arestas e presenças correspondentes.
type CongregationBundle struct {
	Members    []SeederMember
	Edges      []SeederEdge
	Attendance []SeederAttendance
}

func main() {
	rand.Seed(time.Now().UnixNano())

	numCongregations := flag.Int("congregations", -1, "Número de congregações. Use -1 para infinito.")
	doceSize := flag.Int("doce", 12, "Líderes de doze por pastor")
	cellsPerDoce := flag.Int("cells", 3, "Células por líder de doze")
	disciplesPerCell := flag.Int("disciples", 8, "Discípulos por célula")
	monthsOfAttendance := flag.Int("months", 3, "Meses de presença a gerar")
	numConsumers := flag.Int("consumers", 8, "Consumers de escrita")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := newSQLClient()
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer db.Close()

	dataChan := make(chan CongregationBundle, (*numConsumers)*4)

	var wg sync.WaitGroup
	var totalProcessed, totalErrors int64
	startTime := time.Now()

	// Métricas a cada 2 segundos
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				processed := atomic.LoadInt64(&totalProcessed)
				errors := atomic.LoadInt64(&totalErrors)
				elapsed := time.Since(startTime)
				rate := float64(processed) / elapsed.Seconds()

				fmt.Printf("📊 Congregations: %d | Errors: %d | Rate: %.1f/s | Elapsed: %v\n",
					processed, errors, rate, elapsed.Round(time.Second))
			}
		}
	}()

	for i := 0; i < *numConsumers; i++ {
		wg.Add(1)
		go writeConsumer(ctx, &wg, db, dataChan, &totalProcessed, &totalErrors)
	}

	wg.Add(1)
	go producer(ctx, &wg, dataChan, *numCongregations, *doceSize, *cellsPerDoce, *disciplesPerCell, *monthsOfAttendance)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\n🛑 Shutdown signal received, stopping...")
		cancel()
	}()

	wg.Wait()

	elapsed := time.Since(startTime)
	processed := atomic.LoadInt64(&totalProcessed)
	fmt.Printf("\n🏁 Seeding finished! %d congregations in %v\n", processed, elapsed.Round(time.Second))
}

func newSQLClient() (*pgxpool.Pool, error) {
	dbHost := env.MustGetString("DB_HOST")
	dbPort := env.GetString("DB_PORT", "5432")
	dbname := env.MustGetString("DB_NAME")
	dbUser := env.MustGetString("DB_USER")
	dbPassword := env.MustGetString("DB_PASSWORD")
	maxConnections := env.GetInt("DB_MAX_POOL_CONNECTIONS", 25)

	return postgres.NewPostgresClient(dbHost, dbPort, dbname, dbUser, dbPassword, maxConnections)
}

func producer(ctx context.Context, wg *sync.WaitGroup, out chan<- CongregationBundle, total, doceSize, cellsPerDoce, disciplesPerCell, months int) {
	defer wg.Done()
	defer close(out)

	generated := 0
	for total < 0 || generated < total {
		select {
		case <-ctx.Done():
			return
		case out <- buildCongregation(doceSize, cellsPerDoce, disciplesPerCell, months):
			generated++
		}
	}
}

func buildCongregation(doceSize, cellsPerDoce, disciplesPerCell, months int) CongregationBundle {
	var bundle CongregationBundle

	pastor := newSeederMember(string(entities.RolePastor))
	bundle.Members = append(bundle.Members, pastor)

	for d := 0; d < doceSize; d++ {
		doce := newSeederMember(string(entities.RoleLiderDoce))
		bundle.Members = append(bundle.Members, doce)
		bundle.Edges = append(bundle.Edges, SeederEdge{
			ParentRef: pastor.Reference,
			ChildRef:  doce.Reference,
			Role:      string(entities.RolePastor),
		})

		for c := 0; c < cellsPerDoce; c++ {
			cellLeader := newSeederMember(string(entities.RoleLiderCelula))
			bundle.Members = append(bundle.Members, cellLeader)
			bundle.Edges = append(bundle.Edges, SeederEdge{
				ParentRef: doce.Reference,
				ChildRef:  cellLeader.Reference,
				Role:      string(entities.RoleLiderDoce),
			})

			for m := 0; m < disciplesPerCell; m++ {
				disciple := newSeederMember(string(entities.RoleDiscipulo))
				bundle.Members = append(bundle.Members, disciple)
				bundle.Edges = append(bundle.Edges, SeederEdge{
					ParentRef: cellLeader.Reference,
					ChildRef:  disciple.Reference,
					Role:      string(entities.RoleLiderCelula),
				})

				bundle.Attendance = append(bundle.Attendance, buildAttendance(disciple.Reference, months)...)
			}
		}
	}

	return bundle
}

func newSeederMember(role string) SeederMember {
	profile, _ := json.Marshal(map[string]interface{}{
		"email":    faker.Email(),
		"telefone": faker.Phonenumber(),
	})

	roles := []string{role}
	if role != string(entities.RoleDiscipulo) {
		roles = append(roles, string(entities.RoleDiscipulo))
	}

	return SeederMember{
		Reference: uuid.NewString(),
		Name:      faker.Name(),
		Roles:     roles,
		Profile:   profile,
	}
}

func buildAttendance(memberRef string, months int) []SeederAttendance {
	var records []SeederAttendance

	now := time.Now().UTC()
	for m := 0; m < months; m++ {
		// Quatro células por mês, presença ~80%
		for week := 0; week < 4; week++ {
			if rand.Float64() > 0.8 {
				continue
			}

			value, _ := json.Marshal(map[string]interface{}{
				"presente": true,
				"visitas":  rand.Intn(3),
			})

			records = append(records, SeederAttendance{
				MemberRef:     memberRef,
				Key:           string(entities.AttendanceCelula),
				Value:         value,
				ReferenceDate: now.AddDate(0, -m, -7*week),
			})
		}
	}

	return records
}

func writeConsumer(ctx context.Context, wg *sync.WaitGroup, db *pgxpool.Pool, in <-chan CongregationBundle, processed, errors *int64) {
	defer wg.Done()

	for bundle := range in {
		if err := persistBundle(ctx, db, bundle); err != nil {
			atomic.AddInt64(errors, 1)
			log.Printf("Failed to persist congregation: %v", err)
			continue
		}
		atomic.AddInt64(processed, 1)
	}
}

func persistBundle(ctx context.Context, db *pgxpool.Pool, bundle CongregationBundle) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// Membros via COPY, com resolução de reference → id no retorno
	memberRows := make([][]interface{}, 0, len(bundle.Members))
	for _, member := range bundle.Members {
		memberRows = append(memberRows, []interface{}{member.Reference, member.Name, member.Roles, member.Profile})
	}

	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"members"},
		[]string{"reference", "name", "roles", "profile"},
		pgx.CopyFromRows(memberRows),
	)
	if err != nil {
		return fmt.Errorf("copy members: %w", err)
	}

	references := make([]string, 0, len(bundle.Members))
	for _, member := range bundle.Members {
		references = append(references, member.Reference)
	}

	idByRef := make(map[string]int64, len(references))
	rows, err := tx.Query(ctx, `SELECT reference, id FROM members WHERE reference = ANY($1)`, references)
	if err != nil {
		return fmt.Errorf("resolve references: %w", err)
	}
	for rows.Next() {
		var ref string
		var id int64
		if err := rows.Scan(&ref, &id); err != nil {
			rows.Close()
			return err
		}
		idByRef[ref] = id
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	edgeRows := make([][]interface{}, 0, len(bundle.Edges))
	for _, edge := range bundle.Edges {
		edgeRows = append(edgeRows, []interface{}{idByRef[edge.ParentRef], idByRef[edge.ChildRef], edge.Role})
	}

	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"hierarchy_edges"},
		[]string{"parent_id", "child_id", "role"},
		pgx.CopyFromRows(edgeRows),
	)
	if err != nil {
		return fmt.Errorf("copy edges: %w", err)
	}

	attendanceRows := make([][]interface{}, 0, len(bundle.Attendance))
	for _, record := range bundle.Attendance {
		attendanceRows = append(attendanceRows, []interface{}{
			idByRef[record.MemberRef],
			record.Key,
			record.Value,
			uuid.NewString(),
			record.ReferenceDate,
			time.Date(record.ReferenceDate.Year(), record.ReferenceDate.Month(), 1, 0, 0, 0, 0, time.UTC),
		})
	}

	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"attendance_records"},
		[]string{"member_id", "key", "value", "idempotency_key", "reference_date", "reference_month"},
		pgx.CopyFromRows(attendanceRows),
	)
	if err != nil {
		return fmt.Errorf("copy attendance: %w", err)
	}

	return tx.Commit(ctx)
}
