package main

import (
	"fmt"
	"os"

	"github.com/wedding-candy/internal/config"
	"github.com/wedding-candy/internal/constants"
	"github.com/wedding-candy/internal/logger"
	"github.com/wedding-candy/internal/models"
	"github.com/wedding-candy/internal/provider"
	"github.com/wedding-candy/internal/service"

	"github.com/spf13/cobra"
)

type demoRecipient struct {
	input  service.RecipientInput
	status string
}

var withBackup bool

var rootCmd = &cobra.Command{
	Use:   "seed",
	Short: "写入喜糖登记演示数据",
	Args:  cobra.NoArgs,
	RunE:  runSeed,
}

func main() {
	rootCmd.Flags().BoolVar(&withBackup, "backup", true, "写入演示数据后生成一次备份")
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runSeed(_ *cobra.Command, _ []string) error {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	defer logger.Sync()
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer func() { _ = models.CloseDB() }()
	if err := models.AutoMigrate(); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	container := provider.NewContainer(cfg)

	created, skipped := 0, 0
	for _, item := range demoRecipients() {
		if err := container.FormValidator.Validate(item.input); err != nil {
			stdLog.Printf("跳过无效演示数据 %s: %v", item.input.Name, err)
			skipped++
			continue
		}
		result := container.RecipientService.Create(item.input.Normalize(), service.ClientMeta{UserAgent: "seed"})
		if !result.Success {
			stdLog.Printf("跳过 %s: %s", item.input.Name, result.Message)
			skipped++
			continue
		}
		if item.status != "" && item.status != constants.RecipientStatusPending {
			if _, err := container.RecipientService.SetStatus(result.Data.ID, item.status); err != nil {
				stdLog.Printf("更新状态失败 %s: %v", result.Data.ID, err)
			}
		}
		created++
	}

	if withBackup && created > 0 {
		snapshot, err := container.BackupService.Backup()
		if err != nil {
			return fmt.Errorf("backup seed data: %w", err)
		}
		stdLog.Printf("备份完成，共 %d 条", snapshot.Total)
	}
	stdLog.Printf("演示数据写入完成: 新增 %d 条，跳过 %d 条，当前共 %d 条", created, skipped, container.RecipientService.Count())
	return nil
}

func demoRecipients() []demoRecipient {
	return []demoRecipient{
		{
			input: service.RecipientInput{
				Name: "张三", Phone: "13800138000", Wechat: "zhangsan_88",
				Province: "广东省", City: "深圳市", District: "南山区", Address: "科技园路1号", Zipcode: "518000",
				Relationship: constants.RelationFriend, DeliveryTime: constants.DeliveryTimeWeekend,
				Message: "新婚快乐，百年好合", PrivacyAccepted: true,
			},
			status: constants.RecipientStatusShipped,
		},
		{
			input: service.RecipientInput{
				Name: "李四", Phone: "13900139001",
				Province: "广东省", City: "广州市", District: "天河区", Address: "体育西路100号",
				Relationship: constants.RelationColleague, DeliveryTime: constants.DeliveryTimeWorkday,
				PrivacyAccepted: true,
			},
			status: constants.RecipientStatusReceived,
		},
		{
			input: service.RecipientInput{
				Name: "王小五", Phone: "13700137002", Wechat: "wang-xw",
				Province: "北京市", City: "北京市", District: "朝阳区", Address: "建国路88号",
				Relationship: constants.RelationRelative, DeliveryTime: constants.DeliveryTimeAnytime,
				Message: "早生贵子", PrivacyAccepted: true,
			},
		},
		{
			input: service.RecipientInput{
				Name: "Alice Chen", Phone: "13600136003",
				Province: "浙江省", City: "杭州市", District: "西湖区", Address: "文三路200号",
				Relationship: constants.RelationFamily, DeliveryTime: constants.DeliveryTimeAnytime,
				PrivacyAccepted: true,
			},
		},
		{
			input: service.RecipientInput{
				Name: "赵六", Phone: "13500135004",
				Province: "四川省", City: "成都市", District: "武侯区", Address: "天府大道北段1号",
				Relationship: constants.RelationOther, DeliveryTime: constants.DeliveryTimeWeekend,
				PrivacyAccepted: true,
			},
		},
	}
}
