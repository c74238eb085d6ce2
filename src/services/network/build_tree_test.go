package network_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"discipulado/src/domain"
	"discipulado/src/domain/entities"
	"discipulado/src/services/network"
	"discipulado/src/test_artefacts/stubs"
)

// assembleNodes monta os MemberNode como o repositório de consulta faria:
// cada membro com as arestas em que aparece como filho ou como pai.
func assembleNodes(members []entities.Member, edges []entities.HierarchyEdge) []domain.MemberNode {
	nodes := make([]domain.MemberNode, 0, len(members))

	for _, member := range members {
		node := domain.MemberNode{Member: member}
		for _, edge := range edges {
			if edge.ChildID == member.ID {
				node.ParentEdges = append(node.ParentEdges, edge)
			}
			if edge.ParentID == member.ID {
				node.ChildEdges = append(node.ChildEdges, edge)
			}
		}
		nodes = append(nodes, node)
	}

	return nodes
}

func edge(parentID, childID int64, role entities.Role) entities.HierarchyEdge {
	return stubs.NewHierarchyEdgeStub().WithParentID(parentID).WithChildID(childID).WithRole(role).Get()
}

func findDisciple(node *domain.NetworkNode, id int64) *domain.NetworkNode {
	for _, disciple := range node.Disciples {
		if disciple.ID == id {
			return disciple
		}
	}
	return nil
}

// countOccurrences conta quantas vezes o membro aparece na árvore inteira.
func countOccurrences(node *domain.NetworkNode, id int64) int {
	count := 0
	if node.ID == id {
		count++
	}
	for _, disciple := range node.Disciples {
		count += countOccurrences(disciple, id)
	}
	return count
}

var _ = Describe("BuildNetworkTree", func() {
	When("the root member is not in the loaded set", func() {
		It("should return domain not found error", func() {
			// ARRANGE
			member := stubs.NewMemberStub().WithID(10).Get()
			nodes := assembleNodes([]entities.Member{member}, nil)

			// ACT
			result, err := network.BuildNetworkTree(999, nodes, nil)

			// ASSERT
			Expect(err).To(HaveOccurred())
			Expect(result).To(BeNil())
			Expect(err).To(MatchError(domain.ErrMemberNotFound))
		})
	})

	When("the root has no disciples", func() {
		It("should return a single node with empty disciples", func() {
			// ARRANGE
			root := stubs.NewMemberStub().WithID(1).WithRoles(entities.RolePastor).Get()
			nodes := assembleNodes([]entities.Member{root}, nil)

			// ACT
			result, err := network.BuildNetworkTree(1, nodes, nil)

			// ASSERT
			Expect(err).NotTo(HaveOccurred())
			Expect(result.ID).To(Equal(int64(1)))
			Expect(result.Disciples).To(BeEmpty())
		})
	})

	Context("simple chains", func() {
		It("should nest disciples under their leaders with resolved leader names", func() {
			// ARRANGE
			pastor := stubs.NewMemberStub().WithID(1).WithName("Pr. Roberto").WithRoles(entities.RolePastor).Get()
			liderDoce := stubs.NewMemberStub().WithID(2).WithName("Marcos").WithRoles(entities.RoleLiderDoce).Get()
			discipulo := stubs.NewMemberStub().WithID(3).WithRoles(entities.RoleDiscipulo).Get()

			edges := []entities.HierarchyEdge{
				edge(1, 2, entities.RolePastor),
				edge(2, 3, entities.RoleLiderDoce),
			}
			nodes := assembleNodes([]entities.Member{pastor, liderDoce, discipulo}, edges)

			// ACT
			result, err := network.BuildNetworkTree(1, nodes, nil)

			// ASSERT
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Disciples).To(HaveLen(1))

			second := findDisciple(result, 2)
			Expect(second).NotTo(BeNil())
			Expect(second.Leaders.Pastor).NotTo(BeNil())
			Expect(second.Leaders.Pastor.ID).To(Equal(int64(1)))
			Expect(second.Leaders.Pastor.Name).To(Equal("Pr. Roberto"))

			third := findDisciple(second, 3)
			Expect(third).NotTo(BeNil())
			Expect(third.Leaders.LiderDoce).NotTo(BeNil())
			Expect(third.Leaders.LiderDoce.Name).To(Equal("Marcos"))
			Expect(third.Disciples).To(BeEmpty())
		})

		It("should leave the leader name empty when the leader is outside the loaded set", func() {
			// ARRANGE
			root := stubs.NewMemberStub().WithID(1).WithRoles(entities.RoleLiderCelula).Get()
			// A raiz tem um pastor acima dela que não faz parte da rede
			// materializada
			edges := []entities.HierarchyEdge{
				edge(77, 1, entities.RolePastor),
			}
			nodes := assembleNodes([]entities.Member{root}, edges)

			// ACT
			result, err := network.BuildNetworkTree(1, nodes, nil)

			// ASSERT
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Leaders.Pastor).NotTo(BeNil())
			Expect(result.Leaders.Pastor.ID).To(Equal(int64(77)))
			Expect(result.Leaders.Pastor.Name).To(BeEmpty())
		})
	})

	Context("deduplication by specificity", func() {
		It("should place a member reachable by two edges only under the most specific one", func() {
			// ARRANGE: a raiz lidera um doze (2) via LIDER_DOCE; o doze
			// lidera um membro (3) via LIDER_CELULA; a raiz também tem uma
			// aresta LIDER_DOCE direta para o membro. O membro deve
			// aparecer uma única vez, sob a célula.
			root := stubs.NewMemberStub().WithID(1).WithRoles(entities.RoleLiderDoce).Get()
			liderCelula := stubs.NewMemberStub().WithID(2).WithRoles(entities.RoleLiderCelula).Get()
			member := stubs.NewMemberStub().WithID(3).Get()

			edges := []entities.HierarchyEdge{
				edge(1, 2, entities.RoleLiderDoce),
				edge(2, 3, entities.RoleLiderCelula),
				edge(1, 3, entities.RoleLiderDoce),
			}
			nodes := assembleNodes([]entities.Member{root, liderCelula, member}, edges)

			// ACT
			result, err := network.BuildNetworkTree(1, nodes, nil)

			// ASSERT
			Expect(err).NotTo(HaveOccurred())
			Expect(countOccurrences(result, 3)).To(Equal(1))

			celulaNode := findDisciple(result, 2)
			Expect(celulaNode).NotTo(BeNil())
			Expect(findDisciple(celulaNode, 3)).NotTo(BeNil(),
				"member should hang under the cell leader, not under the root")
			Expect(findDisciple(result, 3)).To(BeNil())
		})

		It("should still expose both leaders on the deduplicated node", func() {
			// ARRANGE
			root := stubs.NewMemberStub().WithID(1).WithName("Doce").WithRoles(entities.RoleLiderDoce).Get()
			liderCelula := stubs.NewMemberStub().WithID(2).WithName("Célula").WithRoles(entities.RoleLiderCelula).Get()
			member := stubs.NewMemberStub().WithID(3).Get()

			edges := []entities.HierarchyEdge{
				edge(1, 2, entities.RoleLiderDoce),
				edge(2, 3, entities.RoleLiderCelula),
				edge(1, 3, entities.RoleLiderDoce),
			}
			nodes := assembleNodes([]entities.Member{root, liderCelula, member}, edges)

			// ACT
			result, err := network.BuildNetworkTree(1, nodes, nil)

			// ASSERT
			Expect(err).NotTo(HaveOccurred())

			memberNode := findDisciple(findDisciple(result, 2), 3)
			Expect(memberNode).NotTo(BeNil())
			Expect(memberNode.Leaders.LiderDoce).NotTo(BeNil())
			Expect(memberNode.Leaders.LiderDoce.Name).To(Equal("Doce"))
			Expect(memberNode.Leaders.LiderCelula).NotTo(BeNil())
			Expect(memberNode.Leaders.LiderCelula.Name).To(Equal("Célula"))
		})

		It("should prefer LIDER_CELULA over PASTOR when both edges reach the same member", func() {
			// ARRANGE
			root := stubs.NewMemberStub().WithID(1).WithRoles(entities.RolePastor).Get()
			liderCelula := stubs.NewMemberStub().WithID(2).WithRoles(entities.RoleLiderCelula).Get()
			member := stubs.NewMemberStub().WithID(3).Get()

			edges := []entities.HierarchyEdge{
				edge(1, 2, entities.RolePastor),
				edge(1, 3, entities.RolePastor),
				edge(2, 3, entities.RoleLiderCelula),
			}
			nodes := assembleNodes([]entities.Member{root, liderCelula, member}, edges)

			// ACT
			result, err := network.BuildNetworkTree(1, nodes, nil)

			// ASSERT
			Expect(err).NotTo(HaveOccurred())
			Expect(countOccurrences(result, 3)).To(Equal(1))
			Expect(findDisciple(findDisciple(result, 2), 3)).NotTo(BeNil())
		})
	})

	Context("administrative members", func() {
		It("should exclude ADMIN members from the tree", func() {
			// ARRANGE
			root := stubs.NewMemberStub().WithID(1).WithRoles(entities.RolePastor).Get()
			admin := stubs.NewMemberStub().WithID(2).WithRoles(entities.RoleAdmin).Get()
			regular := stubs.NewMemberStub().WithID(3).Get()

			edges := []entities.HierarchyEdge{
				edge(1, 2, entities.RolePastor),
				edge(1, 3, entities.RolePastor),
			}
			nodes := assembleNodes([]entities.Member{root, admin, regular}, edges)

			// ACT
			result, err := network.BuildNetworkTree(1, nodes, nil)

			// ASSERT
			Expect(err).NotTo(HaveOccurred())
			Expect(findDisciple(result, 2)).To(BeNil())
			Expect(findDisciple(result, 3)).NotTo(BeNil())
		})

		It("should still build the tree when the root itself is administrative", func() {
			// ARRANGE
			root := stubs.NewMemberStub().WithID(1).WithRoles(entities.RoleAdmin).Get()
			nodes := assembleNodes([]entities.Member{root}, nil)

			// ACT
			result, err := network.BuildNetworkTree(1, nodes, nil)

			// ASSERT
			Expect(err).NotTo(HaveOccurred())
			Expect(result.ID).To(Equal(int64(1)))
		})
	})

	Context("attendance", func() {
		It("should attach attendance records to the owning member node", func() {
			// ARRANGE
			root := stubs.NewMemberStub().WithID(1).WithRoles(entities.RoleLiderCelula).Get()
			member := stubs.NewMemberStub().WithID(2).Get()

			edges := []entities.HierarchyEdge{
				edge(1, 2, entities.RoleLiderCelula),
			}
			nodes := assembleNodes([]entities.Member{root, member}, edges)

			attendance := []entities.AttendanceRecord{
				stubs.NewAttendanceRecordStub().WithMemberID(2).WithKey(entities.AttendanceCelula).Get(),
				stubs.NewAttendanceRecordStub().WithMemberID(2).WithKey(entities.AttendanceCulto).Get(),
			}

			// ACT
			result, err := network.BuildNetworkTree(1, nodes, attendance)

			// ASSERT
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Attendance).To(BeEmpty())

			memberNode := findDisciple(result, 2)
			Expect(memberNode).NotTo(BeNil())
			Expect(memberNode.Attendance).To(HaveLen(2))
		})
	})

	Context("corrupted data", func() {
		It("should terminate on a pre-existing cycle and omit the back edge", func() {
			// ARRANGE: 1→2 e 2→1 ao mesmo tempo, algo que Assign nunca
			// deixaria entrar
			first := stubs.NewMemberStub().WithID(1).WithRoles(entities.RoleLiderCelula).Get()
			second := stubs.NewMemberStub().WithID(2).Get()

			edges := []entities.HierarchyEdge{
				edge(1, 2, entities.RoleLiderCelula),
				edge(2, 1, entities.RoleLiderCelula),
			}
			nodes := assembleNodes([]entities.Member{first, second}, edges)

			// ACT
			result, err := network.BuildNetworkTree(1, nodes, nil)

			// ASSERT
			Expect(err).NotTo(HaveOccurred())
			Expect(countOccurrences(result, 1)).To(Equal(1))
			Expect(countOccurrences(result, 2)).To(Equal(1))

			secondNode := findDisciple(result, 2)
			Expect(secondNode).NotTo(BeNil())
			Expect(secondNode.Disciples).To(BeEmpty())
		})
	})
})
