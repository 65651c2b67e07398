package schedule

import (
	"fmt"
	"strings"
	"time"

	"OpimeNotify/internal/domain"
)

// Fixed reminder offsets before each milestone.
const (
	showOffset       = 2 * time.Hour
	offerStartOffset = 30 * time.Minute
	offerEndOffset   = 3 * time.Hour
	resultOffset     = 3 * time.Hour
	saleStartOffset  = 2 * time.Hour
	saleEndOffset    = 3 * time.Hour
	photoOpenOffset  = 2 * time.Hour
)

const (
	dmmURL    = "https://www.dmm.com/lod/ngt48/"
	ticketURL = "https://ticket.akb48-group.com/home/top.php?mode=&gr=NGT48"
	cdShopURL = "https://ngt48cd.shop/"
)

// Reminders expands one schedule event into its timed reminders. A
// reminder is emitted only while its fire time is still strictly in the
// future; an event without a date is informational and emits nothing.
// now may be zoned; extracted event times are wall-clock values, so the
// gate compares wall clocks.
func Reminders(ev domain.ScheduleEvent, now time.Time) []domain.Reminder {
	if ev.OccursAt.IsZero() {
		return nil
	}
	now = domain.WallClock(now)
	switch ev.Kind {
	case domain.KindTheater:
		return theaterReminders(ev, now)
	case domain.KindTalkSale:
		return talkSaleReminders(ev, now)
	case domain.KindMonthlyPhoto:
		return monthlyPhotoReminders(ev, now)
	}
	return nil
}

func theaterReminders(ev domain.ScheduleEvent, now time.Time) []domain.Reminder {
	var reminders []domain.Reminder
	showStr := ev.OccursAt.Format("01月02日 15時04分")

	if fire := ev.OccursAt.Add(-showOffset); now.Before(fire) {
		body := fmt.Sprintf("%s から %s が開演します！\n\n劇場の方は劇場で、そうでない方もDMMを見て応援しましょう！",
			showStr, ev.Title)
		reminders = append(reminders, domain.Reminder{
			Seq:         0,
			Title:       ev.Title,
			FireAt:      fire.Format(domain.DateFormat),
			Description: body,
			URL:         dmmURL,
			Status:      domain.StatusBefore,
		})
	}
	if fire := ev.OfferStart.Add(-offerStartOffset); !ev.OfferStart.IsZero() && now.Before(fire) {
		body := fmt.Sprintf("%s に開催される %s の申込みが %s より開始します！\n\n忘れないように申込みをしましょう！",
			showStr, ev.Title, ev.OfferStart.Format("15時04分"))
		reminders = append(reminders, domain.Reminder{
			Seq:         1,
			Title:       ev.Title + " 申込み開始",
			FireAt:      fire.Format(domain.DateFormat),
			Description: body,
			URL:         ticketURL,
			Status:      domain.StatusBefore,
		})
	}
	if fire := ev.OfferEnd.Add(-offerEndOffset); !ev.OfferEnd.IsZero() && now.Before(fire) {
		body := fmt.Sprintf("%s に開催される %s の申込みは %s で終了です！\n\nまだ申込みをしていない方は早めに申込みをしましょう！",
			showStr, ev.Title, ev.OfferEnd.Format("15時04分"))
		reminders = append(reminders, domain.Reminder{
			Seq:         2,
			Title:       ev.Title + " 申込み終了",
			FireAt:      fire.Format(domain.DateFormat),
			Description: body,
			URL:         ticketURL,
			Status:      domain.StatusBefore,
		})
	}
	if fire := ev.ResultAt.Add(-resultOffset); !ev.ResultAt.IsZero() && now.Before(fire) {
		body := fmt.Sprintf("%s に開催される %s の当落が %s までに発表されます！\n\n当たりますように🙏",
			showStr, ev.Title, ev.ResultAt.Format("15時04分"))
		reminders = append(reminders, domain.Reminder{
			Seq:         3,
			Title:       ev.Title + " 抽選結果発表",
			FireAt:      fire.Format(domain.DateFormat),
			Description: body,
			URL:         ticketURL,
			Status:      domain.StatusBefore,
		})
	}
	return reminders
}

func talkSaleReminders(ev domain.ScheduleEvent, now time.Time) []domain.Reminder {
	var reminders []domain.Reminder

	if fire := ev.SaleStart.Add(-saleStartOffset); !ev.SaleStart.IsZero() && now.Before(fire) {
		body := fmt.Sprintf("%s より %s オンラインおしゃべり会第%d次受付が開始されます！\n今回は %s となります。",
			ev.SaleStart.Format("01月02日 15時04分"), ev.ProductTitle, ev.Round, strings.TrimSpace(ev.Description))
		reminders = append(reminders, domain.Reminder{
			Seq:         0,
			Title:       fmt.Sprintf("%s 第%d次受付開始", ev.ProductTitle, ev.Round),
			FireAt:      fire.Format(domain.DateFormat),
			Description: body,
			URL:         cdShopURL,
			Status:      domain.StatusBefore,
		})
	}
	if fire := ev.SaleEnd.Add(-saleEndOffset); !ev.SaleEnd.IsZero() && now.Before(fire) {
		body := fmt.Sprintf("%s で %s オンラインおしゃべり会第%d次受付が終了します！\nまだ確保していない方は無くなる前に急いで申込みしましょう！",
			ev.SaleEnd.Format("01月02日 15時04分"), ev.ProductTitle, ev.Round)
		reminders = append(reminders, domain.Reminder{
			Seq:         1,
			Title:       fmt.Sprintf("%s 第%d次受付終了", ev.ProductTitle, ev.Round),
			FireAt:      fire.Format(domain.DateFormat),
			Description: body,
			URL:         cdShopURL,
			Status:      domain.StatusBefore,
		})
	}
	return reminders
}

func monthlyPhotoReminders(ev domain.ScheduleEvent, now time.Time) []domain.Reminder {
	if ev.SalesOpenAt.IsZero() {
		return nil
	}
	fire := ev.SalesOpenAt.Add(-photoOpenOffset)
	if !now.Before(fire) {
		return nil
	}
	body := fmt.Sprintf("%sより、%sの予約販売が開始されます。\nなくなり次第終了なので早めに予約しましょう！",
		ev.SalesOpenAt.Format("01月02日15時"), ev.Title)
	return []domain.Reminder{{
		Seq:         0,
		Title:       ev.Title + " 予約販売開始",
		FireAt:      fire.Format(domain.DateFormat),
		Description: body,
		URL:         ev.SourceURL,
		Status:      domain.StatusBefore,
	}}
}
