package hierarchy_test

import (
	"context"
	"log/slog"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"discipulado/src/domain"
	"discipulado/src/domain/entities"
	"discipulado/src/helper/env"
	"discipulado/src/infra/postgres"
	"discipulado/src/repositories"
	"discipulado/src/services/hierarchy"
	"discipulado/src/test_artefacts/stubs"
	"discipulado/src/test_artefacts/test_seeder"

	"github.com/jackc/pgx/v5/pgxpool"
)

var _ = Describe("Assign", func() {
	var (
		pool             *pgxpool.Pool
		seeder           test_seeder.TestSeeder
		hierarchyService *hierarchy.HierarchyService
		edgeRepository   *repositories.HierarchyEdgeRepository
		memberRepository *repositories.MemberRepository
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

		// Conexão com o banco de teste
		pool, err = postgres.NewPostgresClient(dbHost, dbPort, dbname, dbUser, dbPassword, maxConnections)
		if err != nil {
			panic(err)
		}

		// Setup dos componentes, sem cache nem eventos
		logger := slog.New(slog.NewJSONHandler(GinkgoWriter, nil))
		edgeRepository = repositories.NewHierarchyEdgeRepository(pool)
		memberRepository = repositories.NewMemberRepository(pool)
		hierarchyService = hierarchy.NewHierarchyService(logger, pool, edgeRepository, memberRepository, nil, nil)
		seeder = test_seeder.New(pool)

		// Limpar dados
		seeder.TruncateTables(ctx)
	})

	AfterEach(func() {
		if pool != nil {
			pool.Close()
		}
	})

	Context("basic assignment", func() {
		When("both members exist and no edge is in place", func() {
			It("should create the edge", func() {
				// ARRANGE
				leader := stubs.NewMemberStub().WithRoles(entities.RoleLiderCelula).Get()
				disciple := stubs.NewMemberStub().Get()
				seeder.InsertMember(ctx, &leader)
				seeder.InsertMember(ctx, &disciple)

				// ACT
				edge, err := hierarchyService.Assign(ctx, leader.ID, disciple.ID, entities.RoleLiderCelula)

				// ASSERT
				Expect(err).NotTo(HaveOccurred())
				Expect(edge.ParentID).To(Equal(leader.ID))
				Expect(edge.ChildID).To(Equal(disciple.ID))
				Expect(edge.Role).To(Equal(entities.RoleLiderCelula))

				stored, err := seeder.SelectEdgesByChildID(ctx, disciple.ID)
				Expect(err).NotTo(HaveOccurred())
				Expect(stored).To(HaveLen(1))
				Expect(stored[0].ParentID).To(Equal(leader.ID))
			})
		})

		When("the parent does not exist", func() {
			It("should return domain not found error and persist nothing", func() {
				// ARRANGE
				disciple := stubs.NewMemberStub().Get()
				seeder.InsertMember(ctx, &disciple)

				// ACT
				_, err := hierarchyService.Assign(ctx, 999, disciple.ID, entities.RoleLiderCelula)

				// ASSERT
				Expect(err).To(MatchError(domain.ErrMemberNotFound))

				stored, selErr := seeder.SelectEdgesByChildID(ctx, disciple.ID)
				Expect(selErr).NotTo(HaveOccurred())
				Expect(stored).To(BeEmpty())
			})
		})

		When("the child does not exist", func() {
			It("should return domain not found error", func() {
				// ARRANGE
				leader := stubs.NewMemberStub().WithRoles(entities.RolePastor).Get()
				seeder.InsertMember(ctx, &leader)

				// ACT
				_, err := hierarchyService.Assign(ctx, leader.ID, 999, entities.RolePastor)

				// ASSERT
				Expect(err).To(MatchError(domain.ErrMemberNotFound))
			})
		})
	})

	Context("replacement semantics", func() {
		When("the child already has a leader for the same role", func() {
			It("should replace the previous edge instead of accumulating", func() {
				// ARRANGE
				oldLeader := stubs.NewMemberStub().WithRoles(entities.RoleLiderCelula).Get()
				newLeader := stubs.NewMemberStub().WithRoles(entities.RoleLiderCelula).Get()
				disciple := stubs.NewMemberStub().Get()
				seeder.InsertMember(ctx, &oldLeader)
				seeder.InsertMember(ctx, &newLeader)
				seeder.InsertMember(ctx, &disciple)

				_, err = hierarchyService.Assign(ctx, oldLeader.ID, disciple.ID, entities.RoleLiderCelula)
				Expect(err).NotTo(HaveOccurred())

				// ACT
				_, err = hierarchyService.Assign(ctx, newLeader.ID, disciple.ID, entities.RoleLiderCelula)

				// ASSERT
				Expect(err).NotTo(HaveOccurred())

				stored, err := seeder.SelectEdgesByChildID(ctx, disciple.ID)
				Expect(err).NotTo(HaveOccurred())
				Expect(stored).To(HaveLen(1))
				Expect(stored[0].ParentID).To(Equal(newLeader.ID))
			})
		})

		When("the child has leaders for different roles", func() {
			It("should keep the other roles untouched", func() {
				// ARRANGE
				pastor := stubs.NewMemberStub().WithRoles(entities.RolePastor).Get()
				liderCelula := stubs.NewMemberStub().WithRoles(entities.RoleLiderCelula).Get()
				disciple := stubs.NewMemberStub().Get()
				seeder.InsertMember(ctx, &pastor)
				seeder.InsertMember(ctx, &liderCelula)
				seeder.InsertMember(ctx, &disciple)

				_, err = hierarchyService.Assign(ctx, pastor.ID, disciple.ID, entities.RolePastor)
				Expect(err).NotTo(HaveOccurred())

				// ACT
				_, err = hierarchyService.Assign(ctx, liderCelula.ID, disciple.ID, entities.RoleLiderCelula)

				// ASSERT
				Expect(err).NotTo(HaveOccurred())

				stored, err := seeder.SelectEdgesByChildID(ctx, disciple.ID)
				Expect(err).NotTo(HaveOccurred())
				Expect(stored).To(HaveLen(2))
			})
		})
	})

	Context("cycle rejection", func() {
		When("assigning a member as their own leader", func() {
			It("should always return cycle error, for any role", func() {
				// ARRANGE
				member := stubs.NewMemberStub().WithRoles(entities.RolePastor).Get()
				seeder.InsertMember(ctx, &member)

				for _, role := range []entities.Role{entities.RolePastor, entities.RoleLiderDoce, entities.RoleLiderCelula, entities.RoleDiscipulo} {
					// ACT
					_, err := hierarchyService.Assign(ctx, member.ID, member.ID, role)

					// ASSERT
					Expect(err).To(MatchError(domain.ErrHierarchyCycle))
				}
			})
		})

		When("the edge would close a two-member loop", func() {
			It("should reject and leave existing edges untouched", func() {
				// ARRANGE
				leader := stubs.NewMemberStub().WithRoles(entities.RoleLiderDoce).Get()
				disciple := stubs.NewMemberStub().WithRoles(entities.RoleLiderCelula).Get()
				seeder.InsertMember(ctx, &leader)
				seeder.InsertMember(ctx, &disciple)

				_, err = hierarchyService.Assign(ctx, leader.ID, disciple.ID, entities.RoleLiderDoce)
				Expect(err).NotTo(HaveOccurred())

				// ACT: o discípulo tenta virar líder do próprio líder
				_, err = hierarchyService.Assign(ctx, disciple.ID, leader.ID, entities.RoleLiderCelula)

				// ASSERT
				Expect(err).To(MatchError(domain.ErrHierarchyCycle))

				storedForDisciple, selErr := seeder.SelectEdgesByChildID(ctx, disciple.ID)
				Expect(selErr).NotTo(HaveOccurred())
				Expect(storedForDisciple).To(HaveLen(1))

				storedForLeader, selErr := seeder.SelectEdgesByChildID(ctx, leader.ID)
				Expect(selErr).NotTo(HaveOccurred())
				Expect(storedForLeader).To(BeEmpty())
			})
		})

		When("the edge would close a longer loop across different roles", func() {
			It("should reject regardless of the roles involved", func() {
				// ARRANGE: 1 →(PASTOR) 2 →(LIDER_DOCE) 3, e a aresta
				// candidata 3 →(LIDER_CELULA) 1 fecharia o ciclo
				first := stubs.NewMemberStub().WithRoles(entities.RolePastor).Get()
				second := stubs.NewMemberStub().WithRoles(entities.RoleLiderDoce).Get()
				third := stubs.NewMemberStub().WithRoles(entities.RoleLiderCelula).Get()
				seeder.InsertMember(ctx, &first)
				seeder.InsertMember(ctx, &second)
				seeder.InsertMember(ctx, &third)

				_, err = hierarchyService.Assign(ctx, first.ID, second.ID, entities.RolePastor)
				Expect(err).NotTo(HaveOccurred())
				_, err = hierarchyService.Assign(ctx, second.ID, third.ID, entities.RoleLiderDoce)
				Expect(err).NotTo(HaveOccurred())

				// ACT
				_, err = hierarchyService.Assign(ctx, third.ID, first.ID, entities.RoleLiderCelula)

				// ASSERT
				Expect(err).To(MatchError(domain.ErrHierarchyCycle))
			})
		})
	})

	Context("role coherence", func() {
		When("a plain disciple is assigned as leader of a pastor", func() {
			It("should return incoherent role error and keep the store unchanged", func() {
				// ARRANGE
				disciple := stubs.NewMemberStub().Get()
				pastor := stubs.NewMemberStub().WithRoles(entities.RolePastor).Get()
				seeder.InsertMember(ctx, &disciple)
				seeder.InsertMember(ctx, &pastor)

				// ACT
				_, err := hierarchyService.Assign(ctx, disciple.ID, pastor.ID, entities.RoleDiscipulo)

				// ASSERT
				Expect(err).To(MatchError(domain.ErrIncoherentRole))

				stored, selErr := seeder.SelectEdgesByChildID(ctx, pastor.ID)
				Expect(selErr).NotTo(HaveOccurred())
				Expect(stored).To(BeEmpty())
			})
		})

		When("a plain disciple is assigned as leader of a lider doce", func() {
			It("should return incoherent role error", func() {
				// ARRANGE
				disciple := stubs.NewMemberStub().Get()
				liderDoce := stubs.NewMemberStub().WithRoles(entities.RoleLiderDoce).Get()
				seeder.InsertMember(ctx, &disciple)
				seeder.InsertMember(ctx, &liderDoce)

				// ACT
				_, err := hierarchyService.Assign(ctx, disciple.ID, liderDoce.ID, entities.RoleDiscipulo)

				// ASSERT
				Expect(err).To(MatchError(domain.ErrIncoherentRole))
			})
		})

		When("a plain disciple leads another plain disciple", func() {
			It("should accept the edge", func() {
				// ARRANGE
				leader := stubs.NewMemberStub().Get()
				disciple := stubs.NewMemberStub().Get()
				seeder.InsertMember(ctx, &leader)
				seeder.InsertMember(ctx, &disciple)

				// ACT
				_, err := hierarchyService.Assign(ctx, leader.ID, disciple.ID, entities.RoleDiscipulo)

				// ASSERT
				Expect(err).NotTo(HaveOccurred())
			})
		})

		When("the parent accumulates a leadership role", func() {
			It("should judge coherence by the primary role, not by DISCIPULO presence", func() {
				// ARRANGE: papéis [DISCIPULO, LIDER_DOCE] têm primário
				// LIDER_DOCE, então podem liderar um pastor
				leader := stubs.NewMemberStub().WithRoles(entities.RoleDiscipulo, entities.RoleLiderDoce).Get()
				pastor := stubs.NewMemberStub().WithRoles(entities.RolePastor).Get()
				seeder.InsertMember(ctx, &leader)
				seeder.InsertMember(ctx, &pastor)

				// ACT
				_, err := hierarchyService.Assign(ctx, leader.ID, pastor.ID, entities.RoleLiderDoce)

				// ASSERT
				Expect(err).NotTo(HaveOccurred())
			})
		})

		When("the replaced edge would be lost to a failed validation", func() {
			It("should roll back the replacement delete together", func() {
				// ARRANGE: o pastor tem um líder válido; a tentativa de
				// substituição por um discípulo falha na coerência e a
				// aresta antiga precisa sobreviver
				validLeader := stubs.NewMemberStub().WithRoles(entities.RoleLiderDoce).Get()
				invalidLeader := stubs.NewMemberStub().Get()
				pastor := stubs.NewMemberStub().WithRoles(entities.RolePastor).Get()
				seeder.InsertMember(ctx, &validLeader)
				seeder.InsertMember(ctx, &invalidLeader)
				seeder.InsertMember(ctx, &pastor)

				_, err = hierarchyService.Assign(ctx, validLeader.ID, pastor.ID, entities.RoleLiderDoce)
				Expect(err).NotTo(HaveOccurred())

				// ACT
				_, err = hierarchyService.Assign(ctx, invalidLeader.ID, pastor.ID, entities.RoleLiderDoce)

				// ASSERT
				Expect(err).To(MatchError(domain.ErrIncoherentRole))

				stored, selErr := seeder.SelectEdgesByChildID(ctx, pastor.ID)
				Expect(selErr).NotTo(HaveOccurred())
				Expect(stored).To(HaveLen(1))
				Expect(stored[0].ParentID).To(Equal(validLeader.ID))
			})
		})
	})
})
