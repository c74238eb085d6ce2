package hierarchy_test

import (
	"context"
	"log/slog"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"discipulado/src/domain/entities"
	"discipulado/src/helper/env"
	"discipulado/src/infra/postgres"
	"discipulado/src/repositories"
	"discipulado/src/services/hierarchy"
	"discipulado/src/test_artefacts/stubs"
	"discipulado/src/test_artefacts/test_seeder"

	"github.com/jackc/pgx/v5/pgxpool"
)

var _ = Describe("Remove", func() {
	var (
		pool             *pgxpool.Pool
		seeder           test_seeder.TestSeeder
		hierarchyService *hierarchy.HierarchyService
		ctx              context.Context
		err              error
	)

	dbHost := env.MustGetString("TEST_DB_HOST")
	dbPort := env.GetString("TEST_DB_PORT", "5432")
	dbname := env.MustGetString("TEST_DB_NAME")
	dbUser := env.MustGetString("TEST_DB_USER")
	dbPassword := env.MustGetString("TEST_DB_PASSWORD")
	maxConnections := env.GetInt("TEST_DB_MAX_POOL_CONNECTIONS", 25)

	BeforeEach(func() {
		ctx = context.Background()

		pool, err = postgres.NewPostgresClient(dbHost, dbPort, dbname, dbUser, dbPassword, maxConnections)
		if err != nil {
			panic(err)
		}

		logger := slog.New(slog.NewJSONHandler(GinkgoWriter, nil))
		edgeRepository := repositories.NewHierarchyEdgeRepository(pool)
		memberRepository := repositories.NewMemberRepository(pool)
		hierarchyService = hierarchy.NewHierarchyService(logger, pool, edgeRepository, memberRepository, nil, nil)
		seeder = test_seeder.New(pool)

		seeder.TruncateTables(ctx)
	})

	AfterEach(func() {
		if pool != nil {
			pool.Close()
		}
	})

	When("removing a specific role", func() {
		It("should drop only that edge and keep the other roles", func() {
			// ARRANGE
			pastor := stubs.NewMemberStub().WithRoles(entities.RolePastor).Get()
			liderCelula := stubs.NewMemberStub().WithRoles(entities.RoleLiderCelula).Get()
			disciple := stubs.NewMemberStub().Get()
			seeder.InsertMember(ctx, &pastor)
			seeder.InsertMember(ctx, &liderCelula)
			seeder.InsertMember(ctx, &disciple)

			_, err = hierarchyService.Assign(ctx, pastor.ID, disciple.ID, entities.RolePastor)
			Expect(err).NotTo(HaveOccurred())
			_, err = hierarchyService.Assign(ctx, liderCelula.ID, disciple.ID, entities.RoleLiderCelula)
			Expect(err).NotTo(HaveOccurred())

			// ACT
			err = hierarchyService.Remove(ctx, disciple.ID, entities.RolePastor)

			// ASSERT
			Expect(err).NotTo(HaveOccurred())

			stored, selErr := seeder.SelectEdgesByChildID(ctx, disciple.ID)
			Expect(selErr).NotTo(HaveOccurred())
			Expect(stored).To(HaveLen(1))
			Expect(stored[0].Role).To(Equal(entities.RoleLiderCelula))
		})

		It("should be a no-op when no edge exists for the role", func() {
			// ARRANGE
			disciple := stubs.NewMemberStub().Get()
			seeder.InsertMember(ctx, &disciple)

			// ACT
			err = hierarchyService.Remove(ctx, disciple.ID, entities.RolePastor)

			// ASSERT
			Expect(err).NotTo(HaveOccurred())
		})
	})

	When("removing with an empty role", func() {
		It("should drop every edge of the child", func() {
			// ARRANGE
			pastor := stubs.NewMemberStub().WithRoles(entities.RolePastor).Get()
			liderCelula := stubs.NewMemberStub().WithRoles(entities.RoleLiderCelula).Get()
			disciple := stubs.NewMemberStub().Get()
			seeder.InsertMember(ctx, &pastor)
			seeder.InsertMember(ctx, &liderCelula)
			seeder.InsertMember(ctx, &disciple)

			_, err = hierarchyService.Assign(ctx, pastor.ID, disciple.ID, entities.RolePastor)
			Expect(err).NotTo(HaveOccurred())
			_, err = hierarchyService.Assign(ctx, liderCelula.ID, disciple.ID, entities.RoleLiderCelula)
			Expect(err).NotTo(HaveOccurred())

			// ACT
			err = hierarchyService.Remove(ctx, disciple.ID, "")

			// ASSERT
			Expect(err).NotTo(HaveOccurred())

			stored, selErr := seeder.SelectEdgesByChildID(ctx, disciple.ID)
			Expect(selErr).NotTo(HaveOccurred())
			Expect(stored).To(BeEmpty())
		})
	})

	When("the removed leader has their own descendants", func() {
		It("should not cascade below the child", func() {
			// ARRANGE: pastor → líder → discípulo; remover o pastor do
			// líder não pode tocar a aresta líder → discípulo
			pastor := stubs.NewMemberStub().WithRoles(entities.RolePastor).Get()
			leader := stubs.NewMemberStub().WithRoles(entities.RoleLiderCelula).Get()
			disciple := stubs.NewMemberStub().Get()
			seeder.InsertMember(ctx, &pastor)
			seeder.InsertMember(ctx, &leader)
			seeder.InsertMember(ctx, &disciple)

			_, err = hierarchyService.Assign(ctx, pastor.ID, leader.ID, entities.RolePastor)
			Expect(err).NotTo(HaveOccurred())
			_, err = hierarchyService.Assign(ctx, leader.ID, disciple.ID, entities.RoleLiderCelula)
			Expect(err).NotTo(HaveOccurred())

			// ACT
			err = hierarchyService.Remove(ctx, leader.ID, entities.RolePastor)

			// ASSERT
			Expect(err).NotTo(HaveOccurred())

			stored, selErr := seeder.SelectEdgesByChildID(ctx, disciple.ID)
			Expect(selErr).NotTo(HaveOccurred())
			Expect(stored).To(HaveLen(1))
		})
	})
})
